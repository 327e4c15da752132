package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepo) SaveAll(ctx context.Context, tasks []*task.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByRecurrenceID(ctx context.Context, ownerID, seriesID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, ownerID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) ListSeries(ctx context.Context) ([]task.SeriesRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.SeriesRef), args.Error(1)
}

func (m *mockTaskRepo) MaxOrder(ctx context.Context, ownerID uuid.UUID) (int, bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTaskRepo) DeleteByRecurrenceID(ctx context.Context, ownerID, seriesID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ownerID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockTaskRepo) BulkUpdateOrder(ctx context.Context, ownerID uuid.UUID, updates []task.OrderUpdate) error {
	args := m.Called(ctx, ownerID, updates)
	return args.Error(0)
}

func newQueryTask(t *testing.T, ownerID uuid.UUID, title string) *task.Task {
	t.Helper()
	tk, err := task.NewTask(ownerID, title)
	require.NoError(t, err)
	return tk
}

func TestListTasksHandler_Handle(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("returns owner tasks in order", func(t *testing.T) {
		repo := new(mockTaskRepo)
		handler := NewListTasksHandler(repo)

		first := newQueryTask(t, ownerID, "first")
		second := newQueryTask(t, ownerID, "second")
		repo.On("FindByOwner", ctx, ownerID).Return([]*task.Task{first, second}, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{OwnerID: ownerID})
		require.NoError(t, err)
		require.Len(t, dtos, 2)
		assert.Equal(t, "first", dtos[0].Title)
		assert.Equal(t, "second", dtos[1].Title)
		repo.AssertExpectations(t)
	})

	t.Run("empty store yields empty slice", func(t *testing.T) {
		repo := new(mockTaskRepo)
		handler := NewListTasksHandler(repo)

		repo.On("FindByOwner", ctx, ownerID).Return([]*task.Task{}, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{OwnerID: ownerID})
		require.NoError(t, err)
		assert.NotNil(t, dtos)
		assert.Empty(t, dtos)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		repo := new(mockTaskRepo)
		handler := NewListTasksHandler(repo)

		repo.On("FindByOwner", ctx, ownerID).Return(nil, errors.New("db down"))

		_, err := handler.Handle(ctx, ListTasksQuery{OwnerID: ownerID})
		require.Error(t, err)
	})
}

func TestGetTaskHandler_Handle(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("returns the task", func(t *testing.T) {
		repo := new(mockTaskRepo)
		handler := NewGetTaskHandler(repo)

		tk := newQueryTask(t, ownerID, "Mine")
		repo.On("FindByID", ctx, tk.ID()).Return(tk, nil)

		dto, err := handler.Handle(ctx, GetTaskQuery{TaskID: tk.ID(), OwnerID: ownerID})
		require.NoError(t, err)
		assert.Equal(t, tk.ID(), dto.ID)
		assert.Equal(t, "Mine", dto.Title)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockTaskRepo)
		handler := NewGetTaskHandler(repo)

		missing := uuid.New()
		repo.On("FindByID", ctx, missing).Return(nil, task.ErrTaskNotFound)

		_, err := handler.Handle(ctx, GetTaskQuery{TaskID: missing, OwnerID: ownerID})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindNotFound))
	})

	t.Run("foreign owner rejected", func(t *testing.T) {
		repo := new(mockTaskRepo)
		handler := NewGetTaskHandler(repo)

		tk := newQueryTask(t, uuid.New(), "Not yours")
		repo.On("FindByID", ctx, tk.ID()).Return(tk, nil)

		_, err := handler.Handle(ctx, GetTaskQuery{TaskID: tk.ID(), OwnerID: ownerID})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindAuthorization))
	})
}

func TestToTaskDTO(t *testing.T) {
	ownerID := uuid.New()
	tk := newQueryTask(t, ownerID, "Mapped")
	require.NoError(t, tk.SetDescription("details"))
	require.NoError(t, tk.SetPriority(value_objects.PriorityHigh))
	tk.SetTags([]string{"a", "b"})
	require.NoError(t, tk.SetSubtasks([]value_objects.Subtask{{Text: "step", IsCompleted: true}}))
	due := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, tk.SetDueDate(&due))
	tk.SetOrder(3)
	tk.SetUrgencyScore(15)

	dto := ToTaskDTO(tk)
	assert.Equal(t, tk.ID(), dto.ID)
	assert.Equal(t, ownerID, dto.OwnerID)
	assert.Equal(t, "Mapped", dto.Title)
	assert.Equal(t, "details", dto.Description)
	assert.Equal(t, "High", dto.Priority)
	assert.Equal(t, []string{"a", "b"}, dto.Tags)
	require.Len(t, dto.Subtasks, 1)
	assert.True(t, dto.Subtasks[0].IsCompleted)
	assert.Equal(t, due, *dto.DueDate)
	assert.Equal(t, 3, dto.Order)
	assert.Equal(t, 15, dto.UrgencyScore)
	assert.Equal(t, "none", dto.Recurrence)
	assert.Nil(t, dto.RecurrenceID)
}
