package task

import (
	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated       = "tasks.task.created"
	RoutingKeyUpdated       = "tasks.task.updated"
	RoutingKeyCompleted     = "tasks.task.completed"
	RoutingKeyReopened      = "tasks.task.reopened"
	RoutingKeyDeleted       = "tasks.task.deleted"
	RoutingKeySeriesCreated = "tasks.series.created"
	RoutingKeyReordered     = "tasks.list.reordered"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	OwnerID  uuid.UUID `json:"ownerId"`
	Title    string    `json:"title"`
	Priority string    `json:"priority"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID, ownerID uuid.UUID, title, priority string) *TaskCreated {
	return &TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		OwnerID:   ownerID,
		Title:     title,
		Priority:  priority,
	}
}

// TaskUpdated is emitted when one or more task fields change.
type TaskUpdated struct {
	domain.BaseEvent
	OwnerID uuid.UUID `json:"ownerId"`
	Fields  []string  `json:"fields"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(taskID, ownerID uuid.UUID, fields []string) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyUpdated),
		OwnerID:   ownerID,
		Fields:    fields,
	}
}

// TaskCompleted is emitted when a task transitions to completed.
type TaskCompleted struct {
	domain.BaseEvent
	OwnerID uuid.UUID `json:"ownerId"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID, ownerID uuid.UUID) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted),
		OwnerID:   ownerID,
	}
}

// TaskReopened is emitted when a completed task is made active again.
type TaskReopened struct {
	domain.BaseEvent
	OwnerID uuid.UUID `json:"ownerId"`
}

// NewTaskReopened creates a TaskReopened event.
func NewTaskReopened(taskID, ownerID uuid.UUID) *TaskReopened {
	return &TaskReopened{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyReopened),
		OwnerID:   ownerID,
	}
}

// TaskDeleted is emitted when one task or a whole series is deleted.
type TaskDeleted struct {
	domain.BaseEvent
	OwnerID    uuid.UUID   `json:"ownerId"`
	Scope      string      `json:"scope"`
	DeletedIDs []uuid.UUID `json:"deletedIds"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(taskID, ownerID uuid.UUID, scope string, deletedIDs []uuid.UUID) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent:  domain.NewBaseEvent(taskID, AggregateType, RoutingKeyDeleted),
		OwnerID:    ownerID,
		Scope:      scope,
		DeletedIDs: deletedIDs,
	}
}

// SeriesCreated is emitted once per recurring series materialization.
type SeriesCreated struct {
	domain.BaseEvent
	OwnerID    uuid.UUID `json:"ownerId"`
	SeriesID   uuid.UUID `json:"seriesId"`
	Recurrence string    `json:"recurrence"`
	Instances  int       `json:"instances"`
}

// NewSeriesCreated creates a SeriesCreated event. The anchor instance is
// the aggregate the event is attached to.
func NewSeriesCreated(anchorID, ownerID, seriesID uuid.UUID, recurrence string, instances int) *SeriesCreated {
	return &SeriesCreated{
		BaseEvent:  domain.NewBaseEvent(anchorID, AggregateType, RoutingKeySeriesCreated),
		OwnerID:    ownerID,
		SeriesID:   seriesID,
		Recurrence: recurrence,
		Instances:  instances,
	}
}

// ListReordered is emitted after a bulk manual reorder.
type ListReordered struct {
	domain.BaseEvent
	OwnerID uuid.UUID `json:"ownerId"`
	Count   int       `json:"count"`
}

// NewListReordered creates a ListReordered event keyed on the owner.
func NewListReordered(ownerID uuid.UUID, count int) *ListReordered {
	return &ListReordered{
		BaseEvent: domain.NewBaseEvent(ownerID, AggregateType, RoutingKeyReordered),
		OwnerID:   ownerID,
		Count:     count,
	}
}
