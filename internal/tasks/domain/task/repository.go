package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when a task does not exist in the store.
var ErrTaskNotFound = errors.New("task not found")

// OrderUpdate pairs a task id with its new manual order index.
type OrderUpdate struct {
	ID    uuid.UUID
	Order int
}

// SeriesRef identifies one recurring series and its owner.
type SeriesRef struct {
	OwnerID  uuid.UUID
	SeriesID uuid.UUID
}

// Repository defines the interface for task persistence.
type Repository interface {
	// Save upserts a single task.
	Save(ctx context.Context, t *Task) error

	// SaveAll upserts a batch of tasks; used when materializing a series.
	SaveAll(ctx context.Context, tasks []*Task) error

	// FindByID retrieves a task by its id.
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByOwner retrieves all tasks of an owner, sorted by
	// (order asc, urgency score desc, creation time desc).
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Task, error)

	// FindByRecurrenceID retrieves every instance of a recurring series.
	FindByRecurrenceID(ctx context.Context, ownerID, seriesID uuid.UUID) ([]*Task, error)

	// ListSeries returns every distinct recurring series in the store.
	// Used by the maintenance job that extends rolling horizons.
	ListSeries(ctx context.Context) ([]SeriesRef, error)

	// MaxOrder returns the highest manual order index among the owner's
	// tasks and false when the owner has no tasks.
	MaxOrder(ctx context.Context, ownerID uuid.UUID) (int, bool, error)

	// Delete removes a task by id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByRecurrenceID removes every instance of a series owned by
	// ownerID and returns the ids it removed.
	DeleteByRecurrenceID(ctx context.Context, ownerID, seriesID uuid.UUID) ([]uuid.UUID, error)

	// BulkUpdateOrder applies order indexes to the owner's tasks in one
	// batch. Ids not owned by ownerID must be ignored, not written.
	BulkUpdateOrder(ctx context.Context, ownerID uuid.UUID, updates []OrderUpdate) error
}
