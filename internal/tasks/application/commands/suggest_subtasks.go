package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	sharedApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/application"
	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
)

// BreakdownRequest is the task context sent to the breakdown provider.
type BreakdownRequest struct {
	Title       string
	Description string
	Priority    string
	Tags        []string
}

// BreakdownProvider turns a task into actionable subtask suggestions.
// Implementations must degrade to generic steps rather than fail when the
// underlying model is unavailable.
type BreakdownProvider interface {
	Breakdown(ctx context.Context, req BreakdownRequest) ([]string, error)
}

// SuggestSubtasksCommand asks for an AI breakdown of one task.
type SuggestSubtasksCommand struct {
	TaskID  uuid.UUID
	OwnerID uuid.UUID
}

// SuggestSubtasksResult holds the generated suggestions.
type SuggestSubtasksResult struct {
	Task        *task.Task
	Suggestions []string
}

// SuggestSubtasksHandler handles the SuggestSubtasksCommand.
type SuggestSubtasksHandler struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
	provider BreakdownProvider
}

// NewSuggestSubtasksHandler creates a new SuggestSubtasksHandler.
func NewSuggestSubtasksHandler(
	taskRepo task.Repository,
	uow sharedApplication.UnitOfWork,
	provider BreakdownProvider,
) *SuggestSubtasksHandler {
	return &SuggestSubtasksHandler{taskRepo: taskRepo, uow: uow, provider: provider}
}

// Handle executes the SuggestSubtasksCommand. The provider call happens
// outside the transaction; only storing the result is transactional.
func (h *SuggestSubtasksHandler) Handle(ctx context.Context, cmd SuggestSubtasksCommand) (*SuggestSubtasksResult, error) {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return nil, sharedDomain.NewNotFoundError("task", cmd.TaskID.String())
		}
		return nil, err
	}
	if t.OwnerID() != cmd.OwnerID {
		return nil, sharedDomain.NewAuthorizationError("task does not belong to the requesting user")
	}

	suggestions, err := h.provider.Breakdown(ctx, BreakdownRequest{
		Title:       t.Title(),
		Description: t.Description(),
		Priority:    t.Priority().String(),
		Tags:        t.Tags(),
	})
	if err != nil {
		return nil, sharedDomain.NewExternalServiceError("subtask breakdown failed", err)
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t.SetAISuggestions(suggestions)
		return h.taskRepo.Save(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	return &SuggestSubtasksResult{Task: t, Suggestions: suggestions}, nil
}
