package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"

	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
)

// GetTaskQuery retrieves a single task by id.
type GetTaskQuery struct {
	TaskID  uuid.UUID
	OwnerID uuid.UUID
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo task.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle executes the GetTaskQuery.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return nil, sharedDomain.NewNotFoundError("task", query.TaskID.String())
		}
		return nil, err
	}
	if t.OwnerID() != query.OwnerID {
		return nil, sharedDomain.NewAuthorizationError("task does not belong to the requesting user")
	}

	dto := ToTaskDTO(t)
	return &dto, nil
}
