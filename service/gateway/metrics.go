package gateway

import (
	"errors"
	"fmt"
	"time"

	"github.com/unmeshed/unmeshed-mcp-server/internal/clock"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics collects gateway call counters and latencies
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates gateway metrics and registers them with reg (if not nil).
// Collectors already registered with reg, for example by an earlier service, are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	ret := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unmeshed",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Number of gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "unmeshed",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Orchestration engine round trip latency by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"operation"}),
	}
	if reg == nil {
		return ret, nil
	}
	var err error
	if ret.requests, err = register(reg, ret.requests); err != nil {
		return nil, fmt.Errorf("failed to register gateway requests metric: %w", err)
	}
	if ret.duration, err = register(reg, ret.duration); err != nil {
		return nil, fmt.Errorf("failed to register gateway duration metric: %w", err)
	}
	return ret, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}
	var registered prometheus.AlreadyRegisteredError
	if errors.As(err, &registered) {
		if existing, ok := registered.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return collector, err
}

func (m *Metrics) observe(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	if outcome != OutcomeRejected {
		m.duration.WithLabelValues(operation).Observe(clock.Since(started).Seconds())
	}
}
