package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/observability"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Save(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Message), args.Error(1)
}

func (m *mockRepository) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) MarkFailed(ctx context.Context, id int64, reason string, retryAt time.Time) error {
	args := m.Called(ctx, id, reason, retryAt)
	return args.Error(0)
}

func (m *mockRepository) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMessage(id int64, retryCount int) *Message {
	return &Message{
		ID:          id,
		EventID:     uuid.New(),
		AggregateID: uuid.New(),
		RoutingKey:  "tasks.task.created",
		Payload:     []byte(`{"title":"x"}`),
		CreatedAt:   time.Now().UTC(),
		RetryCount:  retryCount,
	}
}

func TestNewProcessor_ConfigDefaults(t *testing.T) {
	p := NewProcessor(new(mockRepository), new(mockPublisher), ProcessorConfig{}, nil)

	assert.Equal(t, DefaultProcessorConfig().PollInterval, p.config.PollInterval)
	assert.Equal(t, DefaultProcessorConfig().BatchSize, p.config.BatchSize)
	assert.Equal(t, DefaultProcessorConfig().MaxRetries, p.config.MaxRetries)
	assert.Equal(t, DefaultProcessorConfig().RetryBackoffBase, p.config.RetryBackoffBase)
	assert.Equal(t, DefaultProcessorConfig().RetryBackoffMax, p.config.RetryBackoffMax)
	assert.Equal(t, observability.NoopMetrics{}, p.config.Metrics)
}

func TestProcessor_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks messages", func(t *testing.T) {
		repo := new(mockRepository)
		publisher := new(mockPublisher)
		p := NewProcessor(repo, publisher, DefaultProcessorConfig(), testLogger())

		first := newTestMessage(1, 0)
		second := newTestMessage(2, 0)

		repo.On("GetUnpublished", ctx, 100).Return([]*Message{first, second}, nil)
		publisher.On("Publish", ctx, first.RoutingKey, []byte(first.Payload)).Return(nil)
		publisher.On("Publish", ctx, second.RoutingKey, []byte(second.Payload)).Return(nil)
		repo.On("MarkPublished", ctx, int64(1)).Return(nil)
		repo.On("MarkPublished", ctx, int64(2)).Return(nil)

		p.processBatch(ctx)

		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("publish failure schedules retry", func(t *testing.T) {
		repo := new(mockRepository)
		publisher := new(mockPublisher)
		p := NewProcessor(repo, publisher, DefaultProcessorConfig(), testLogger())

		msg := newTestMessage(1, 0)

		repo.On("GetUnpublished", ctx, 100).Return([]*Message{msg}, nil)
		publisher.On("Publish", ctx, msg.RoutingKey, mock.Anything).Return(errors.New("broker down"))
		repo.On("MarkFailed", ctx, int64(1), "broker down", mock.AnythingOfType("time.Time")).Return(nil)

		p.processBatch(ctx)

		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything)
	})

	t.Run("one failure does not block the rest", func(t *testing.T) {
		repo := new(mockRepository)
		publisher := new(mockPublisher)
		p := NewProcessor(repo, publisher, DefaultProcessorConfig(), testLogger())

		bad := newTestMessage(1, 0)
		good := newTestMessage(2, 0)

		repo.On("GetUnpublished", ctx, 100).Return([]*Message{bad, good}, nil)
		publisher.On("Publish", ctx, bad.RoutingKey, []byte(bad.Payload)).Return(errors.New("boom")).Once()
		publisher.On("Publish", ctx, good.RoutingKey, []byte(good.Payload)).Return(nil).Once()
		repo.On("MarkFailed", ctx, int64(1), "boom", mock.AnythingOfType("time.Time")).Return(nil)
		repo.On("MarkPublished", ctx, int64(2)).Return(nil)

		p.processBatch(ctx)

		repo.AssertExpectations(t)
	})

	t.Run("records publish outcomes", func(t *testing.T) {
		repo := new(mockRepository)
		publisher := new(mockPublisher)
		metrics := observability.NewInMemoryMetrics()
		cfg := DefaultProcessorConfig()
		cfg.Metrics = metrics
		p := NewProcessor(repo, publisher, cfg, testLogger())

		bad := newTestMessage(1, 0)
		good := newTestMessage(2, 0)

		repo.On("GetUnpublished", ctx, 100).Return([]*Message{bad, good}, nil)
		publisher.On("Publish", ctx, bad.RoutingKey, []byte(bad.Payload)).Return(errors.New("boom")).Once()
		publisher.On("Publish", ctx, good.RoutingKey, []byte(good.Payload)).Return(nil).Once()
		repo.On("MarkFailed", ctx, int64(1), "boom", mock.AnythingOfType("time.Time")).Return(nil)
		repo.On("MarkPublished", ctx, int64(2)).Return(nil)

		p.processBatch(ctx)

		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOutboxPublished))
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOutboxFailed))
	})

	t.Run("fetch failure is tolerated", func(t *testing.T) {
		repo := new(mockRepository)
		publisher := new(mockPublisher)
		p := NewProcessor(repo, publisher, DefaultProcessorConfig(), testLogger())

		repo.On("GetUnpublished", ctx, 100).Return(nil, errors.New("db down"))

		p.processBatch(ctx)

		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcessor_RetryBackoff(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultProcessorConfig()
	cfg.RetryBackoffBase = time.Second
	cfg.RetryBackoffMax = 4 * time.Second

	repo := new(mockRepository)
	publisher := new(mockPublisher)
	p := NewProcessor(repo, publisher, cfg, testLogger())

	// Retry count 10 would shift far past the cap.
	msg := newTestMessage(1, 10)

	repo.On("GetUnpublished", ctx, 100).Return([]*Message{msg}, nil)
	publisher.On("Publish", ctx, msg.RoutingKey, mock.Anything).Return(errors.New("still down"))
	repo.On("MarkFailed", ctx, int64(1), "still down", mock.MatchedBy(func(at time.Time) bool {
		// The retry slot must honor the backoff cap.
		return time.Until(at) <= 5*time.Second
	})).Return(nil)

	p.processBatch(ctx)

	repo.AssertExpectations(t)
}

func TestProcessor_StartStop(t *testing.T) {
	repo := new(mockRepository)
	publisher := new(mockPublisher)

	cfg := DefaultProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond

	p := NewProcessor(repo, publisher, cfg, testLogger())
	repo.On("GetUnpublished", mock.Anything, 100).Return([]*Message{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	assert.True(t, p.IsRunning())

	// Starting twice is a no-op.
	p.Start(ctx)
	assert.True(t, p.IsRunning())

	time.Sleep(30 * time.Millisecond)

	p.Stop()
	assert.False(t, p.IsRunning())

	// Stopping twice is safe.
	p.Stop()
	require.False(t, p.IsRunning())
}
