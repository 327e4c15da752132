package queries

import (
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

// SubtaskDTO is the read model of one subtask.
type SubtaskDTO struct {
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

// TaskDTO is the read model of a task returned by queries and the API.
type TaskDTO struct {
	ID            uuid.UUID    `json:"id"`
	OwnerID       uuid.UUID    `json:"ownerId"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	IsCompleted   bool         `json:"isCompleted"`
	CompletedAt   *time.Time   `json:"completedAt,omitempty"`
	DueDate       *time.Time   `json:"dueDate,omitempty"`
	EndDate       *time.Time   `json:"endDate,omitempty"`
	IsAllDay      bool         `json:"isAllDay"`
	Location      string       `json:"location,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Priority      string       `json:"priority"`
	UrgencyScore  int          `json:"urgencyScore"`
	Order         int          `json:"order"`
	Subtasks      []SubtaskDTO `json:"subtasks,omitempty"`
	Recurrence    string       `json:"recurrence"`
	RecurrenceID  *uuid.UUID   `json:"recurrenceId,omitempty"`
	AISuggestions []string     `json:"aiSuggestions,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// ToTaskDTO maps a task aggregate to its read model.
func ToTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:            t.ID(),
		OwnerID:       t.OwnerID(),
		Title:         t.Title(),
		Description:   t.Description(),
		IsCompleted:   t.IsCompleted(),
		CompletedAt:   t.CompletedAt(),
		DueDate:       t.DueDate(),
		EndDate:       t.EndDate(),
		IsAllDay:      t.IsAllDay(),
		Location:      t.Location(),
		Tags:          t.Tags(),
		Priority:      t.Priority().String(),
		UrgencyScore:  t.UrgencyScore(),
		Order:         t.Order(),
		Subtasks:      toSubtaskDTOs(t.Subtasks()),
		Recurrence:    t.Recurrence().String(),
		RecurrenceID:  t.RecurrenceID(),
		AISuggestions: t.AISuggestions(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
	}
}

// ToTaskDTOs maps a slice of tasks preserving order.
func ToTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}

func toSubtaskDTOs(subtasks []value_objects.Subtask) []SubtaskDTO {
	if len(subtasks) == 0 {
		return nil
	}
	dtos := make([]SubtaskDTO, len(subtasks))
	for i, s := range subtasks {
		dtos[i] = SubtaskDTO{Text: s.Text, IsCompleted: s.IsCompleted}
	}
	return dtos
}
