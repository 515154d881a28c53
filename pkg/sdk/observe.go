package docgate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/docgate/internal/metrics"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by operation and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := metrics.RegisterOrReuse(reg, &m.operations); err != nil {
		return nil, fmt.Errorf("docgate: %w", err)
	}
	if err := metrics.RegisterOrReuse(reg, &m.duration); err != nil {
		return nil, fmt.Errorf("docgate: %w", err)
	}
	return m, nil
}

// observer logs and counts SDK operations. A nil observer does nothing.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// observe records one finished operation. op is "<RecordType>.<verb>" for
// collection calls, or a bare verb for client-level calls.
func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := metrics.OutcomeOK
		if err != nil {
			status = metrics.OutcomeError
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("docgate operation failed", "op", op, "duration", dur, "error", err)
		return
	}
	o.logger.Debug("docgate operation completed", "op", op, "duration", dur)
}
