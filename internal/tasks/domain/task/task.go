package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

const (
	// TitleMaxLen is the maximum task title length.
	TitleMaxLen = 100
	// DescriptionMaxLen is the maximum task description length.
	DescriptionMaxLen = 500
)

var (
	ErrEmptyTitle         = errors.New("task title cannot be empty")
	ErrTitleTooLong       = errors.New("task title cannot exceed 100 characters")
	ErrDescriptionTooLong = errors.New("task description cannot exceed 500 characters")
	ErrEndBeforeDue       = errors.New("end date cannot be before due date")
	ErrInvalidRecurrence  = errors.New("invalid recurrence kind")
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	domain.BaseAggregateRoot
	ownerID       uuid.UUID
	title         string
	description   string
	isCompleted   bool
	completedAt   *time.Time
	dueDate       *time.Time
	endDate       *time.Time
	isAllDay      bool
	location      string
	tags          []string
	priority      value_objects.Priority
	urgencyScore  int
	order         int
	subtasks      []value_objects.Subtask
	recurrence    value_objects.Recurrence
	recurrenceID  *uuid.UUID
	aiSuggestions []string
}

// NewTask creates a new task with the given title.
func NewTask(ownerID uuid.UUID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		ownerID:           ownerID,
		title:             title,
		priority:          value_objects.PriorityMedium,
		recurrence:        value_objects.RecurrenceNone,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.ownerID, t.title, t.priority.String()))

	return t, nil
}

// Getters

func (t *Task) OwnerID() uuid.UUID                   { return t.ownerID }
func (t *Task) Title() string                        { return t.title }
func (t *Task) Description() string                  { return t.description }
func (t *Task) IsCompleted() bool                    { return t.isCompleted }
func (t *Task) CompletedAt() *time.Time              { return t.completedAt }
func (t *Task) DueDate() *time.Time                  { return t.dueDate }
func (t *Task) EndDate() *time.Time                  { return t.endDate }
func (t *Task) IsAllDay() bool                       { return t.isAllDay }
func (t *Task) Location() string                     { return t.location }
func (t *Task) Tags() []string                       { return t.tags }
func (t *Task) Priority() value_objects.Priority     { return t.priority }
func (t *Task) UrgencyScore() int                    { return t.urgencyScore }
func (t *Task) Order() int                           { return t.order }
func (t *Task) Subtasks() []value_objects.Subtask    { return t.subtasks }
func (t *Task) Recurrence() value_objects.Recurrence { return t.recurrence }
func (t *Task) RecurrenceID() *uuid.UUID             { return t.recurrenceID }
func (t *Task) AISuggestions() []string              { return t.aiSuggestions }

// IsRecurring returns true when the task belongs to a recurring series.
func (t *Task) IsRecurring() bool {
	return t.recurrenceID != nil
}

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	t.title = title
	t.Touch()
	return nil
}

// SetDescription updates the task description.
func (t *Task) SetDescription(description string) error {
	description = strings.TrimSpace(description)
	if len(description) > DescriptionMaxLen {
		return ErrDescriptionTooLong
	}
	t.description = description
	t.Touch()
	return nil
}

// SetPriority updates the task priority.
func (t *Task) SetPriority(priority value_objects.Priority) error {
	if !priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	t.priority = priority
	t.Touch()
	return nil
}

// SetDueDate updates the due date. A nil value clears it.
func (t *Task) SetDueDate(dueDate *time.Time) error {
	if dueDate != nil && t.endDate != nil && t.endDate.Before(*dueDate) {
		return ErrEndBeforeDue
	}
	t.dueDate = dueDate
	t.Touch()
	return nil
}

// SetEndDate updates the end date. A nil value clears it.
func (t *Task) SetEndDate(endDate *time.Time) error {
	if endDate != nil && t.dueDate != nil && endDate.Before(*t.dueDate) {
		return ErrEndBeforeDue
	}
	t.endDate = endDate
	t.Touch()
	return nil
}

// SetDates replaces both dates as one pair. Patches that move the whole
// window are validated against the resulting pair, not the stored one.
func (t *Task) SetDates(dueDate, endDate *time.Time) error {
	if dueDate != nil && endDate != nil && endDate.Before(*dueDate) {
		return ErrEndBeforeDue
	}
	t.dueDate = dueDate
	t.endDate = endDate
	t.Touch()
	return nil
}

// SetAllDay marks the task as an all-day entry.
func (t *Task) SetAllDay(allDay bool) {
	t.isAllDay = allDay
	t.Touch()
}

// SetLocation updates the free-form location text.
func (t *Task) SetLocation(location string) {
	t.location = strings.TrimSpace(location)
	t.Touch()
}

// SetTags replaces the tag set.
func (t *Task) SetTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	t.tags = cleaned
	t.Touch()
}

// SetSubtasks replaces the subtask list.
func (t *Task) SetSubtasks(subtasks []value_objects.Subtask) error {
	if err := value_objects.ValidateSubtasks(subtasks); err != nil {
		return err
	}
	t.subtasks = subtasks
	t.Touch()
	return nil
}

// SetAISuggestions replaces the AI-generated breakdown suggestions.
func (t *Task) SetAISuggestions(suggestions []string) {
	t.aiSuggestions = suggestions
	t.Touch()
}

// SetUrgencyScore stores the derived urgency score. Clients never set this
// directly; it is recomputed by the application layer on every mutation
// touching the due date or priority.
func (t *Task) SetUrgencyScore(score int) {
	t.urgencyScore = score
	t.Touch()
}

// SetOrder assigns the manual display order index.
func (t *Task) SetOrder(order int) {
	t.order = order
	t.Touch()
}

// AssignSeries attaches the task to a recurring series.
func (t *Task) AssignSeries(recurrence value_objects.Recurrence, seriesID uuid.UUID) error {
	if !recurrence.IsRepeating() {
		return ErrInvalidRecurrence
	}
	t.recurrence = recurrence
	t.recurrenceID = &seriesID
	t.Touch()
	return nil
}

// Complete marks the task as completed. Completing an already completed
// task is a no-op.
func (t *Task) Complete() {
	if t.isCompleted {
		return
	}
	now := time.Now().UTC()
	t.isCompleted = true
	t.completedAt = &now
	t.Touch()
	t.AddDomainEvent(NewTaskCompleted(t.ID(), t.ownerID))
}

// Reopen marks a completed task as active again.
func (t *Task) Reopen() {
	if !t.isCompleted {
		return
	}
	t.isCompleted = false
	t.completedAt = nil
	t.Touch()
	t.AddDomainEvent(NewTaskReopened(t.ID(), t.ownerID))
}

// CloneForOccurrence creates a sibling instance of a recurring series with
// its own identity and the given occurrence dates. The clone shares the
// authored fields (title, description, priority, tags, subtasks, location)
// but is independently completable and independently scored.
func (t *Task) CloneForOccurrence(dueDate, endDate *time.Time) *Task {
	clone := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		ownerID:           t.ownerID,
		title:             t.title,
		description:       t.description,
		isAllDay:          t.isAllDay,
		location:          t.location,
		tags:              append([]string(nil), t.tags...),
		priority:          t.priority,
		recurrence:        t.recurrence,
		recurrenceID:      t.recurrenceID,
		dueDate:           dueDate,
		endDate:           endDate,
	}
	clone.subtasks = make([]value_objects.Subtask, len(t.subtasks))
	copy(clone.subtasks, t.subtasks)
	return clone
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > TitleMaxLen {
		return ErrTitleTooLong
	}
	return nil
}

// RehydrateState carries every persisted field of a task.
type RehydrateState struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Title         string
	Description   string
	IsCompleted   bool
	CompletedAt   *time.Time
	DueDate       *time.Time
	EndDate       *time.Time
	IsAllDay      bool
	Location      string
	Tags          []string
	Priority      value_objects.Priority
	UrgencyScore  int
	Order         int
	Subtasks      []value_objects.Subtask
	Recurrence    value_objects.Recurrence
	RecurrenceID  *uuid.UUID
	AISuggestions []string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Rehydrate recreates a task from persisted state without raising events.
func Rehydrate(state RehydrateState) *Task {
	return &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(state.ID, state.CreatedAt, state.UpdatedAt),
			state.Version,
		),
		ownerID:       state.OwnerID,
		title:         state.Title,
		description:   state.Description,
		isCompleted:   state.IsCompleted,
		completedAt:   state.CompletedAt,
		dueDate:       state.DueDate,
		endDate:       state.EndDate,
		isAllDay:      state.IsAllDay,
		location:      state.Location,
		tags:          state.Tags,
		priority:      state.Priority,
		urgencyScore:  state.UrgencyScore,
		order:         state.Order,
		subtasks:      state.Subtasks,
		recurrence:    state.Recurrence,
		recurrenceID:  state.RecurrenceID,
		aiSuggestions: state.AISuggestions,
	}
}
