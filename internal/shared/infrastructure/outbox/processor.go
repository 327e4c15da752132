package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/eventbus"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/observability"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration

	// Metrics receives publish outcomes. Nil disables recording.
	Metrics observability.Metrics
}

// DefaultProcessorConfig returns sensible defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: 1 * time.Second,
		RetryBackoffMax:  1 * time.Minute,
	}
}

// Processor polls the outbox and publishes events to the message broker.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger

	wg       sync.WaitGroup
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex
}

// NewProcessor creates a new outbox processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultProcessorConfig().PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultProcessorConfig().BatchSize
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultProcessorConfig().MaxRetries
	}
	if config.RetryBackoffBase <= 0 {
		config.RetryBackoffBase = DefaultProcessorConfig().RetryBackoffBase
	}
	if config.RetryBackoffMax <= 0 {
		config.RetryBackoffMax = DefaultProcessorConfig().RetryBackoffMax
	}
	if config.Metrics == nil {
		config.Metrics = observability.NoopMetrics{}
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the polling loop in a goroutine.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)
}

// Stop gracefully stops the processor.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

// IsRunning returns true while the polling loop is active.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

// processBatch drains one batch of unpublished messages.
func (p *Processor) processBatch(ctx context.Context) {
	msgs, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to fetch outbox messages", "error", err)
		return
	}

	for _, msg := range msgs {
		if err := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
			p.handleFailure(ctx, msg, err)
			continue
		}
		p.config.Metrics.Counter(observability.MetricOutboxPublished, 1)
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.Error("failed to mark message published",
				"message_id", msg.ID,
				"error", err,
			)
		}
	}
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, publishErr error) {
	p.config.Metrics.Counter(observability.MetricOutboxFailed, 1)
	if !msg.CanRetry(p.config.MaxRetries) {
		p.logger.Error("outbox message exhausted retries",
			"message_id", msg.ID,
			"routing_key", msg.RoutingKey,
			"error", publishErr,
		)
	}

	backoff := p.config.RetryBackoffBase << uint(msg.RetryCount)
	if backoff > p.config.RetryBackoffMax || backoff <= 0 {
		backoff = p.config.RetryBackoffMax
	}

	if err := p.repo.MarkFailed(ctx, msg.ID, publishErr.Error(), time.Now().UTC().Add(backoff)); err != nil {
		p.logger.Error("failed to mark message failed",
			"message_id", msg.ID,
			"error", err,
		)
	}
}
