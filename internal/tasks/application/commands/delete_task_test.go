package commands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

func TestParseDeleteScope(t *testing.T) {
	t.Run("empty defaults to single", func(t *testing.T) {
		scope, err := ParseDeleteScope("")
		require.NoError(t, err)
		assert.Equal(t, DeleteScopeSingle, scope)
	})

	t.Run("single", func(t *testing.T) {
		scope, err := ParseDeleteScope("single")
		require.NoError(t, err)
		assert.Equal(t, DeleteScopeSingle, scope)
	})

	t.Run("series", func(t *testing.T) {
		scope, err := ParseDeleteScope("series")
		require.NoError(t, err)
		assert.Equal(t, DeleteScopeSeries, scope)
	})

	t.Run("unknown rejected", func(t *testing.T) {
		_, err := ParseDeleteScope("everything")
		require.Error(t, err)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))
	})
}

func TestDeleteTaskHandler_Handle(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("single instance", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteTaskHandler(repo, outboxRepo, uow)

		stored := newStoredTask(t, ownerID)

		txCtx := context.WithValue(ctx, txKey{}, "transaction")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, stored.ID()).Return(stored, nil)
		repo.On("Delete", txCtx, stored.ID()).Return(nil)
		outboxRepo.On("Save", txCtx, mock.AnythingOfType("*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, DeleteTaskCommand{
			TaskID:  stored.ID(),
			OwnerID: ownerID,
			Scope:   DeleteScopeSingle,
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{stored.ID()}, result.DeletedIDs)

		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("series scope removes all instances", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteTaskHandler(repo, outboxRepo, uow)

		stored := newStoredTask(t, ownerID)
		seriesID := uuid.New()
		require.NoError(t, stored.AssignSeries(value_objects.RecurrenceDaily, seriesID))

		deleted := []uuid.UUID{stored.ID(), uuid.New(), uuid.New()}

		txCtx := context.WithValue(ctx, txKey{}, "transaction")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, stored.ID()).Return(stored, nil)
		repo.On("DeleteByRecurrenceID", txCtx, ownerID, seriesID).Return(deleted, nil)
		outboxRepo.On("Save", txCtx, mock.AnythingOfType("*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, DeleteTaskCommand{
			TaskID:  stored.ID(),
			OwnerID: ownerID,
			Scope:   DeleteScopeSeries,
		})
		require.NoError(t, err)
		assert.Equal(t, deleted, result.DeletedIDs)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("series scope degrades for non recurring task", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteTaskHandler(repo, outboxRepo, uow)

		stored := newStoredTask(t, ownerID)

		txCtx := context.WithValue(ctx, txKey{}, "transaction")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, stored.ID()).Return(stored, nil)
		repo.On("Delete", txCtx, stored.ID()).Return(nil)
		outboxRepo.On("Save", txCtx, mock.AnythingOfType("*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, DeleteTaskCommand{
			TaskID:  stored.ID(),
			OwnerID: ownerID,
			Scope:   DeleteScopeSeries,
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{stored.ID()}, result.DeletedIDs)
		repo.AssertNotCalled(t, "DeleteByRecurrenceID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("task not found", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteTaskHandler(repo, outboxRepo, uow)

		missing := uuid.New()
		txCtx := context.WithValue(ctx, txKey{}, "transaction")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, missing).Return(nil, task.ErrTaskNotFound)

		_, err := handler.Handle(ctx, DeleteTaskCommand{TaskID: missing, OwnerID: ownerID})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindNotFound))
	})

	t.Run("foreign owner rejected", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteTaskHandler(repo, outboxRepo, uow)

		stored := newStoredTask(t, uuid.New())

		txCtx := context.WithValue(ctx, txKey{}, "transaction")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, stored.ID()).Return(stored, nil)

		_, err := handler.Handle(ctx, DeleteTaskCommand{TaskID: stored.ID(), OwnerID: ownerID})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindAuthorization))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
