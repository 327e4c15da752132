package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

// taskColumns is the scan order shared by every SELECT in this file.
// "order" is reserved in SQL, so the manual index lives in sort_order.
const taskColumns = `
	id, owner_id, title, description, is_completed, completed_at,
	due_date, end_date, is_all_day, location, tags, priority,
	urgency_score, sort_order, subtasks, recurrence, recurrence_id,
	ai_suggestions, version, created_at, updated_at`

// SQLTaskRepository implements task.Repository on the shared database
// abstraction. Timestamps are stored as RFC 3339 text and list-valued
// fields as JSON so the same statements run on PostgreSQL and SQLite.
type SQLTaskRepository struct {
	conn database.Connection
}

// NewSQLTaskRepository creates a task repository for the given connection.
func NewSQLTaskRepository(conn database.Connection) *SQLTaskRepository {
	return &SQLTaskRepository{conn: conn}
}

// Save upserts a single task.
func (r *SQLTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			is_completed = excluded.is_completed,
			completed_at = excluded.completed_at,
			due_date = excluded.due_date,
			end_date = excluded.end_date,
			is_all_day = excluded.is_all_day,
			location = excluded.location,
			tags = excluded.tags,
			priority = excluded.priority,
			urgency_score = excluded.urgency_score,
			sort_order = excluded.sort_order,
			subtasks = excluded.subtasks,
			recurrence = excluded.recurrence,
			recurrence_id = excluded.recurrence_id,
			ai_suggestions = excluded.ai_suggestions,
			version = excluded.version,
			updated_at = excluded.updated_at
	`

	args, err := taskArgs(t)
	if err != nil {
		return err
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	if _, err := exec.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	t.SetVersion(t.Version() + 1)
	return nil
}

// SaveAll upserts a batch of tasks. Within a unit of work the batch
// shares the surrounding transaction.
func (r *SQLTaskRepository) SaveAll(ctx context.Context, tasks []*task.Task) error {
	for _, t := range tasks {
		if err := r.Save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves a task by its id.
func (r *SQLTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, query, id.String())

	t, err := scanTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, task.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}

// FindByOwner retrieves all tasks of an owner in display order.
func (r *SQLTaskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = $1
		ORDER BY sort_order ASC, urgency_score DESC, created_at DESC
	`
	return r.queryTasks(ctx, query, ownerID.String())
}

// FindByRecurrenceID retrieves every instance of a recurring series in
// due date order.
func (r *SQLTaskRepository) FindByRecurrenceID(ctx context.Context, ownerID, seriesID uuid.UUID) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = $1 AND recurrence_id = $2
		ORDER BY due_date ASC
	`
	return r.queryTasks(ctx, query, ownerID.String(), seriesID.String())
}

// ListSeries returns every distinct recurring series in the store.
func (r *SQLTaskRepository) ListSeries(ctx context.Context) ([]task.SeriesRef, error) {
	query := `SELECT DISTINCT owner_id, recurrence_id FROM tasks WHERE recurrence_id IS NOT NULL`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var refs []task.SeriesRef
	for rows.Next() {
		var owner, series string
		if err := rows.Scan(&owner, &series); err != nil {
			return nil, err
		}
		ref := task.SeriesRef{}
		if ref.OwnerID, err = uuid.Parse(owner); err != nil {
			return nil, fmt.Errorf("invalid owner id: %w", err)
		}
		if ref.SeriesID, err = uuid.Parse(series); err != nil {
			return nil, fmt.Errorf("invalid series id: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// MaxOrder returns the highest manual order index among the owner's tasks.
func (r *SQLTaskRepository) MaxOrder(ctx context.Context, ownerID uuid.UUID) (int, bool, error) {
	query := `SELECT COUNT(*), COALESCE(MAX(sort_order), 0) FROM tasks WHERE owner_id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	var count, max int
	if err := exec.QueryRow(ctx, query, ownerID.String()).Scan(&count, &max); err != nil {
		return 0, false, fmt.Errorf("failed to query max order: %w", err)
	}
	if count == 0 {
		return 0, false, nil
	}
	return max, true, nil
}

// Delete removes a task by id. Deleting an absent id is a no-op.
func (r *SQLTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	if _, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id.String()); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteByRecurrenceID removes every instance of a series owned by
// ownerID and returns the ids it removed.
func (r *SQLTaskRepository) DeleteByRecurrenceID(ctx context.Context, ownerID, seriesID uuid.UUID) ([]uuid.UUID, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	rows, err := exec.Query(ctx,
		`SELECT id FROM tasks WHERE owner_id = $1 AND recurrence_id = $2`,
		ownerID.String(), seriesID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid task id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := exec.Exec(ctx,
		`DELETE FROM tasks WHERE owner_id = $1 AND recurrence_id = $2`,
		ownerID.String(), seriesID.String(),
	); err != nil {
		return nil, fmt.Errorf("failed to delete series: %w", err)
	}
	return ids, nil
}

// BulkUpdateOrder applies order indexes to the owner's tasks. The owner
// filter makes foreign ids no-ops instead of writes.
func (r *SQLTaskRepository) BulkUpdateOrder(ctx context.Context, ownerID uuid.UUID, updates []task.OrderUpdate) error {
	query := `UPDATE tasks SET sort_order = $1, updated_at = $2 WHERE id = $3 AND owner_id = $4`
	now := time.Now().UTC().Format(time.RFC3339Nano)

	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, u := range updates {
		if _, err := exec.Exec(ctx, query, u.Order, now, u.ID.String(), ownerID.String()); err != nil {
			return fmt.Errorf("failed to update order for %s: %w", u.ID, err)
		}
	}
	return nil
}

func (r *SQLTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func taskArgs(t *task.Task) ([]any, error) {
	tags, err := json.Marshal(t.Tags())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	subtasks, err := json.Marshal(t.Subtasks())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal subtasks: %w", err)
	}
	suggestions, err := json.Marshal(t.AISuggestions())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suggestions: %w", err)
	}

	var recurrenceID *string
	if t.RecurrenceID() != nil {
		s := t.RecurrenceID().String()
		recurrenceID = &s
	}

	return []any{
		t.ID().String(),
		t.OwnerID().String(),
		t.Title(),
		t.Description(),
		t.IsCompleted(),
		formatTimePtr(t.CompletedAt()),
		formatTimePtr(t.DueDate()),
		formatTimePtr(t.EndDate()),
		t.IsAllDay(),
		t.Location(),
		string(tags),
		int(t.Priority()),
		t.UrgencyScore(),
		t.Order(),
		string(subtasks),
		t.Recurrence().String(),
		recurrenceID,
		string(suggestions),
		t.Version() + 1,
		t.CreatedAt().UTC().Format(time.RFC3339Nano),
		t.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}, nil
}

func scanTask(row database.Row) (*task.Task, error) {
	var (
		id, ownerID           string
		title, description    string
		isCompleted, isAllDay bool
		completedAt, dueDate  *string
		endDate               *string
		location              string
		tagsJSON              string
		priority              int
		urgencyScore, order   int
		subtasksJSON          string
		recurrence            string
		recurrenceID          *string
		suggestionsJSON       string
		version               int
		createdAt, updatedAt  string
	)

	if err := row.Scan(
		&id, &ownerID, &title, &description, &isCompleted, &completedAt,
		&dueDate, &endDate, &isAllDay, &location, &tagsJSON, &priority,
		&urgencyScore, &order, &subtasksJSON, &recurrence, &recurrenceID,
		&suggestionsJSON, &version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	state := task.RehydrateState{
		Title:        title,
		Description:  description,
		IsCompleted:  isCompleted,
		IsAllDay:     isAllDay,
		Location:     location,
		Priority:     value_objects.Priority(priority),
		UrgencyScore: urgencyScore,
		Order:        order,
		Version:      version,
	}

	var err error
	if state.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	if state.OwnerID, err = uuid.Parse(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}
	if state.Recurrence, err = value_objects.ParseRecurrence(recurrence); err != nil {
		return nil, err
	}
	if recurrenceID != nil {
		rid, err := uuid.Parse(*recurrenceID)
		if err != nil {
			return nil, fmt.Errorf("invalid recurrence id: %w", err)
		}
		state.RecurrenceID = &rid
	}

	if err := json.Unmarshal([]byte(tagsJSON), &state.Tags); err != nil {
		return nil, fmt.Errorf("invalid tags: %w", err)
	}
	if err := json.Unmarshal([]byte(subtasksJSON), &state.Subtasks); err != nil {
		return nil, fmt.Errorf("invalid subtasks: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestionsJSON), &state.AISuggestions); err != nil {
		return nil, fmt.Errorf("invalid suggestions: %w", err)
	}

	if state.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}
	if state.DueDate, err = parseTimePtr(dueDate); err != nil {
		return nil, err
	}
	if state.EndDate, err = parseTimePtr(endDate); err != nil {
		return nil, err
	}
	if state.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	if state.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	return task.Rehydrate(state), nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}
	return &t, nil
}
