package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryMetrics(t *testing.T) {
	t.Run("counters accumulate per tag set", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricOutboxPublished, 1)
		m.Counter(MetricOutboxPublished, 2)
		m.Counter(MetricOutboxPublished, 1, T("routing_key", "task.created"))

		assert.Equal(t, int64(3), m.GetCounter(MetricOutboxPublished))
		assert.Equal(t, int64(1), m.GetCounter(MetricOutboxPublished, T("routing_key", "task.created")))
		assert.Equal(t, int64(0), m.GetCounter(MetricOutboxFailed))
	})

	t.Run("gauges keep the last value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge("queue.depth", 10)
		m.Gauge("queue.depth", 4)

		assert.Equal(t, float64(4), m.GetGauge("queue.depth"))
	})

	t.Run("timings append", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Timing(MetricHTTPDuration, 5*time.Millisecond, T("method", "GET"))
		m.Timing(MetricHTTPDuration, 7*time.Millisecond, T("method", "GET"))

		recorded := m.GetTimings(MetricHTTPDuration, T("method", "GET"))
		assert.Equal(t, []time.Duration{5 * time.Millisecond, 7 * time.Millisecond}, recorded)
	})
}

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}

	// Must not panic.
	m.Counter("x", 1)
	m.Gauge("x", 1)
	m.Timing("x", time.Second)
}
