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

// SubtaskInput is one authored subtask in a create or update request.
type SubtaskInput struct {
	Text        string
	IsCompleted bool
}

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	EndDate     *time.Time
	IsAllDay    bool
	Location    string
	Tags        []string
	Subtasks    []SubtaskInput
	Recurrence  string
}

// CreateTaskResult contains the result of creating a task. For recurring
// tasks the anchor instance is returned and Instances reports how many
// records were materialized.
type CreateTaskResult struct {
	Task      *task.Task
	Instances int
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	urgency    *services.UrgencyCalculator
	ordering   *services.OrderingService
	expander   *services.RecurrenceExpander
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	urgency *services.UrgencyCalculator,
	ordering *services.OrderingService,
	expander *services.RecurrenceExpander,
) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		urgency:    urgency,
		ordering:   ordering,
		expander:   expander,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	recurrence, err := value_objects.ParseRecurrence(cmd.Recurrence)
	if err != nil {
		return nil, sharedDomain.NewValidationError("invalid task", map[string]string{"recurrence": err.Error()})
	}

	anchor, err := buildTask(cmd)
	if err != nil {
		return nil, err
	}

	var result *CreateTaskResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		order, err := h.ordering.NextOrder(txCtx, cmd.OwnerID)
		if err != nil {
			return err
		}

		instances := []*task.Task{anchor}
		if recurrence.IsRepeating() {
			instances, err = h.expander.Expand(anchor, recurrence)
			if err != nil {
				return err
			}
		}

		for i, inst := range instances {
			inst.SetOrder(order + i)
			inst.SetUrgencyScore(h.urgency.Score(inst.DueDate(), inst.Priority()))
		}

		if err := h.taskRepo.SaveAll(txCtx, instances); err != nil {
			return err
		}

		if recurrence.IsRepeating() {
			anchor.AddDomainEvent(task.NewSeriesCreated(
				anchor.ID(), cmd.OwnerID, *anchor.RecurrenceID(), recurrence.String(), len(instances),
			))
		}

		if err := h.stageEvents(txCtx, cmd.OwnerID, anchor); err != nil {
			return err
		}

		result = &CreateTaskResult{Task: anchor, Instances: len(instances)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (h *CreateTaskHandler) stageEvents(ctx context.Context, ownerID uuid.UUID, t *task.Task) error {
	events := t.DomainEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ownerID))

	msgs, err := outbox.FromEvents(events)
	if err != nil {
		return err
	}
	return h.outboxRepo.SaveBatch(ctx, msgs)
}

// buildTask assembles and validates the authored task fields.
func buildTask(cmd CreateTaskCommand) (*task.Task, error) {
	t, err := task.NewTask(cmd.OwnerID, cmd.Title)
	if err != nil {
		return nil, asValidationError("title", err)
	}

	if cmd.Description != "" {
		if err := t.SetDescription(cmd.Description); err != nil {
			return nil, asValidationError("description", err)
		}
	}

	if cmd.Priority != "" {
		priority, err := value_objects.ParsePriority(cmd.Priority)
		if err != nil {
			return nil, asValidationError("priority", err)
		}
		if err := t.SetPriority(priority); err != nil {
			return nil, asValidationError("priority", err)
		}
	}

	if cmd.DueDate != nil {
		if err := t.SetDueDate(cmd.DueDate); err != nil {
			return nil, asValidationError("dueDate", err)
		}
	}
	if cmd.EndDate != nil {
		if err := t.SetEndDate(cmd.EndDate); err != nil {
			return nil, asValidationError("endDate", err)
		}
	}

	t.SetAllDay(cmd.IsAllDay)

	if cmd.Location != "" {
		t.SetLocation(cmd.Location)
	}
	if len(cmd.Tags) > 0 {
		t.SetTags(cmd.Tags)
	}
	if len(cmd.Subtasks) > 0 {
		subtasks := make([]value_objects.Subtask, len(cmd.Subtasks))
		for i, s := range cmd.Subtasks {
			subtasks[i] = value_objects.Subtask{Text: s.Text, IsCompleted: s.IsCompleted}
		}
		if err := t.SetSubtasks(subtasks); err != nil {
			return nil, asValidationError("subtasks", err)
		}
	}

	return t, nil
}

// asValidationError classifies a domain validation failure for the boundary.
func asValidationError(field string, err error) error {
	var de *sharedDomain.Error
	if errors.As(err, &de) {
		return err
	}
	return sharedDomain.NewValidationError("invalid task", map[string]string{field: err.Error()})
}
