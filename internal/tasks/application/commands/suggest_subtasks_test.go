package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
)

type mockBreakdownProvider struct {
	mock.Mock
}

func (m *mockBreakdownProvider) Breakdown(ctx context.Context, req BreakdownRequest) ([]string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestSuggestSubtasksHandler_Handle(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("stores provider suggestions", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		provider := new(mockBreakdownProvider)
		handler := NewSuggestSubtasksHandler(repo, uow, provider)

		stored := newStoredTask(t, ownerID)
		stored.SetTags([]string{"work"})

		suggestions := []string{"Outline the doc", "Write a draft", "Review with the team"}

		txCtx := context.WithValue(ctx, txKey{}, "transaction")
		repo.On("FindByID", ctx, stored.ID()).Return(stored, nil)
		provider.On("Breakdown", ctx, BreakdownRequest{
			Title:    "Stored task",
			Priority: "Medium",
			Tags:     []string{"work"},
		}).Return(suggestions, nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("Save", txCtx, stored).Return(nil)

		result, err := handler.Handle(ctx, SuggestSubtasksCommand{TaskID: stored.ID(), OwnerID: ownerID})
		require.NoError(t, err)
		assert.Equal(t, suggestions, result.Suggestions)
		assert.Equal(t, suggestions, result.Task.AISuggestions())

		provider.AssertExpectations(t)
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("provider failure maps to external service error", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		provider := new(mockBreakdownProvider)
		handler := NewSuggestSubtasksHandler(repo, uow, provider)

		stored := newStoredTask(t, ownerID)

		repo.On("FindByID", ctx, stored.ID()).Return(stored, nil)
		provider.On("Breakdown", ctx, mock.Anything).Return(nil, errors.New("model overloaded"))

		_, err := handler.Handle(ctx, SuggestSubtasksCommand{TaskID: stored.ID(), OwnerID: ownerID})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindExternalService))
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("task not found", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		provider := new(mockBreakdownProvider)
		handler := NewSuggestSubtasksHandler(repo, uow, provider)

		missing := uuid.New()
		repo.On("FindByID", ctx, missing).Return(nil, task.ErrTaskNotFound)

		_, err := handler.Handle(ctx, SuggestSubtasksCommand{TaskID: missing, OwnerID: ownerID})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindNotFound))
		provider.AssertNotCalled(t, "Breakdown", mock.Anything, mock.Anything)
	})

	t.Run("foreign owner rejected", func(t *testing.T) {
		repo := new(mockTaskRepo)
		uow := new(mockUnitOfWork)
		provider := new(mockBreakdownProvider)
		handler := NewSuggestSubtasksHandler(repo, uow, provider)

		stored := newStoredTask(t, uuid.New())
		repo.On("FindByID", ctx, stored.ID()).Return(stored, nil)

		_, err := handler.Handle(ctx, SuggestSubtasksCommand{TaskID: stored.ID(), OwnerID: ownerID})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindAuthorization))
		provider.AssertNotCalled(t, "Breakdown", mock.Anything, mock.Anything)
	})
}
