package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/application"
	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/outbox"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/services"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
)

// ReorderTasksCommand replaces an owner's manual ordering with the given
// id sequence. Position in the slice becomes the order index.
type ReorderTasksCommand struct {
	OwnerID    uuid.UUID
	OrderedIDs []uuid.UUID
}

// ReorderTasksHandler handles the ReorderTasksCommand.
type ReorderTasksHandler struct {
	ordering   *services.OrderingService
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewReorderTasksHandler creates a new ReorderTasksHandler.
func NewReorderTasksHandler(
	ordering *services.OrderingService,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *ReorderTasksHandler {
	return &ReorderTasksHandler{ordering: ordering, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the ReorderTasksCommand. An empty id list is a no-op.
func (h *ReorderTasksHandler) Handle(ctx context.Context, cmd ReorderTasksCommand) error {
	if len(cmd.OrderedIDs) == 0 {
		return nil
	}

	if err := h.ordering.Reorder(ctx, cmd.OwnerID, cmd.OrderedIDs); err != nil {
		return err
	}

	event := task.NewListReordered(cmd.OwnerID, len(cmd.OrderedIDs))
	sharedApplication.ApplyEventMetadata([]sharedDomain.DomainEvent{event}, sharedApplication.NewEventMetadata(cmd.OwnerID))
	msg, err := outbox.NewMessage(event)
	if err != nil {
		return err
	}
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.outboxRepo.Save(txCtx, msg)
	})
}
