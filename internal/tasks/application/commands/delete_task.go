package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	sharedApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/application"
	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/outbox"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
)

// DeleteScope selects how much of a recurring series a delete removes.
type DeleteScope string

const (
	// DeleteScopeSingle removes only the addressed instance.
	DeleteScopeSingle DeleteScope = "single"
	// DeleteScopeSeries removes every instance sharing the series id.
	DeleteScopeSeries DeleteScope = "series"
)

// ParseDeleteScope parses a delete scope. An empty string defaults to
// single-instance deletion.
func ParseDeleteScope(s string) (DeleteScope, error) {
	switch s {
	case "", string(DeleteScopeSingle):
		return DeleteScopeSingle, nil
	case string(DeleteScopeSeries):
		return DeleteScopeSeries, nil
	default:
		return "", sharedDomain.NewValidationError("invalid delete scope", map[string]string{"scope": s})
	}
}

// DeleteTaskCommand removes a task, or its whole series.
type DeleteTaskCommand struct {
	TaskID  uuid.UUID
	OwnerID uuid.UUID
	Scope   DeleteScope
}

// DeleteTaskResult reports which task ids were removed.
type DeleteTaskResult struct {
	DeletedIDs []uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *DeleteTaskHandler {
	return &DeleteTaskHandler{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the DeleteTaskCommand. Series scope on a task that is
// not part of a series degrades to a single-instance delete.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (*DeleteTaskResult, error) {
	scope := cmd.Scope
	if scope == "" {
		scope = DeleteScopeSingle
	}

	var result *DeleteTaskResult

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

		var deleted []uuid.UUID
		if scope == DeleteScopeSeries && t.IsRecurring() {
			deleted, err = h.taskRepo.DeleteByRecurrenceID(txCtx, cmd.OwnerID, *t.RecurrenceID())
			if err != nil {
				return err
			}
		} else {
			if err := h.taskRepo.Delete(txCtx, t.ID()); err != nil {
				return err
			}
			deleted = []uuid.UUID{t.ID()}
		}

		event := task.NewTaskDeleted(t.ID(), cmd.OwnerID, string(scope), deleted)
		sharedApplication.ApplyEventMetadata([]sharedDomain.DomainEvent{event}, sharedApplication.NewEventMetadata(cmd.OwnerID))
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.Save(txCtx, msg); err != nil {
			return err
		}

		result = &DeleteTaskResult{DeletedIDs: deleted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
