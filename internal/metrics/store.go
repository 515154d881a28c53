package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for store operations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// StoreMetrics counts and times document store operations per collection.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewStoreMetrics registers the store collectors on reg, reusing collectors
// that are already registered. A nil reg yields unregistered collectors.
func NewStoreMetrics(reg prometheus.Registerer) (*StoreMetrics, error) {
	m := &StoreMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total document store operations by collection, operation and outcome.",
		}, []string{"collection", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Document store operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection", "operation"}),
	}
	if reg == nil {
		return m, nil
	}
	if err := RegisterOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := RegisterOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one finished operation. Safe on a nil receiver.
func (m *StoreMetrics) Observe(collection, op, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(collection, op, outcome).Inc()
	m.duration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}

// Operations exposes the counter for tests.
func (m *StoreMetrics) Operations() *prometheus.CounterVec { return m.operations }

// RegisterOrReuse registers *c on reg. When an equal collector is already
// registered, *c is replaced by it.
func RegisterOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}
