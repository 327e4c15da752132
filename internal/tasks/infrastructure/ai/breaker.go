package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/commands"
)

// BreakerProvider wraps a breakdown provider with a circuit breaker and
// a guaranteed fallback: callers always receive suggestions, even while
// the model endpoint is down or the breaker is open.
type BreakerProvider struct {
	inner   commands.BreakdownProvider
	breaker *gobreaker.CircuitBreaker[[]string]
	logger  *slog.Logger
}

// NewBreakerProvider wraps the given provider.
func NewBreakerProvider(inner commands.BreakdownProvider, logger *slog.Logger) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        "ai-breakdown",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &BreakerProvider{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[[]string](settings),
		logger:  logger,
	}
}

// Breakdown implements commands.BreakdownProvider. It never returns an
// error; provider failures degrade to the generic fallback steps.
func (p *BreakerProvider) Breakdown(ctx context.Context, req commands.BreakdownRequest) ([]string, error) {
	steps, err := p.breaker.Execute(func() ([]string, error) {
		return p.inner.Breakdown(ctx, req)
	})
	if err != nil {
		p.logger.Warn("breakdown provider unavailable, serving fallback",
			slog.String("error", err.Error()),
			slog.String("breaker_state", p.breaker.State().String()),
		)
		return FallbackSteps(req.Title), nil
	}
	return steps, nil
}
