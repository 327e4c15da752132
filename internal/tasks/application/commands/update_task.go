package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/application"
	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/outbox"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/services"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

// UpdateTaskCommand is a partial patch of one task. Nil fields are left
// unchanged; the Clear flags drop optional values explicitly.
type UpdateTaskCommand struct {
	TaskID       uuid.UUID
	OwnerID      uuid.UUID
	Title        *string
	Description  *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
	EndDate      *time.Time
	ClearEndDate bool
	IsAllDay     *bool
	Location     *string
	Tags         *[]string
	Subtasks     *[]SubtaskInput
	IsCompleted  *bool
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	urgency    *services.UrgencyCalculator
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	urgency *services.UrgencyCalculator,
) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		urgency:    urgency,
	}
}

// Handle executes the UpdateTaskCommand.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*task.Task, error) {
	var updated *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			if errors.Is(err, task.ErrTaskNotFound) {
				return sharedDomain.NewNotFoundError("task", cmd.TaskID.String())
			}
			return err
		}
		if t.OwnerID() != cmd.OwnerID {
			return sharedDomain.NewAuthorizationError("task does not belong to the requesting user")
		}

		changed, err := applyPatch(t, cmd)
		if err != nil {
			return err
		}

		t.SetUrgencyScore(h.urgency.Score(t.DueDate(), t.Priority()))

		if len(changed) > 0 {
			t.AddDomainEvent(task.NewTaskUpdated(t.ID(), t.OwnerID(), changed))
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		events := t.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.OwnerID))
		msgs, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// applyPatch mutates the task in place and returns the names of the
// fields that changed.
func applyPatch(t *task.Task, cmd UpdateTaskCommand) ([]string, error) {
	var changed []string

	if cmd.Title != nil {
		if err := t.SetTitle(*cmd.Title); err != nil {
			return nil, asValidationError("title", err)
		}
		changed = append(changed, "title")
	}
	if cmd.Description != nil {
		if err := t.SetDescription(*cmd.Description); err != nil {
			return nil, asValidationError("description", err)
		}
		changed = append(changed, "description")
	}
	if cmd.Priority != nil {
		priority, err := value_objects.ParsePriority(*cmd.Priority)
		if err != nil {
			return nil, asValidationError("priority", err)
		}
		if err := t.SetPriority(priority); err != nil {
			return nil, asValidationError("priority", err)
		}
		changed = append(changed, "priority")
	}
	dueTouched := cmd.ClearDueDate || cmd.DueDate != nil
	endTouched := cmd.ClearEndDate || cmd.EndDate != nil
	if dueTouched || endTouched {
		due, end := t.DueDate(), t.EndDate()
		if cmd.ClearDueDate {
			due = nil
		} else if cmd.DueDate != nil {
			due = cmd.DueDate
		}
		if cmd.ClearEndDate {
			end = nil
		} else if cmd.EndDate != nil {
			end = cmd.EndDate
		}
		if err := t.SetDates(due, end); err != nil {
			return nil, asValidationError("endDate", err)
		}
		if dueTouched {
			changed = append(changed, "dueDate")
		}
		if endTouched {
			changed = append(changed, "endDate")
		}
	}
	if cmd.IsAllDay != nil {
		t.SetAllDay(*cmd.IsAllDay)
		changed = append(changed, "isAllDay")
	}
	if cmd.Location != nil {
		t.SetLocation(*cmd.Location)
		changed = append(changed, "location")
	}
	if cmd.Tags != nil {
		t.SetTags(*cmd.Tags)
		changed = append(changed, "tags")
	}
	if cmd.Subtasks != nil {
		subtasks := make([]value_objects.Subtask, len(*cmd.Subtasks))
		for i, s := range *cmd.Subtasks {
			subtasks[i] = value_objects.Subtask{Text: s.Text, IsCompleted: s.IsCompleted}
		}
		if err := t.SetSubtasks(subtasks); err != nil {
			return nil, asValidationError("subtasks", err)
		}
		changed = append(changed, "subtasks")
	}
	if cmd.IsCompleted != nil {
		if *cmd.IsCompleted {
			t.Complete()
		} else {
			t.Reopen()
		}
		changed = append(changed, "isCompleted")
	}

	return changed, nil
}
