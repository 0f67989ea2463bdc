package casefolio

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements the Metrics interface using Prometheus
type PrometheusMetrics struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	registry   *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance.
// If registry is nil, a fresh registry is created.
func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &PrometheusMetrics{
		registry: registry,
		operations: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "casefolio",
				Subsystem: "storage",
				Name:      "operations_total",
				Help:      "Total number of content storage operations",
			},
			[]string{"operation"},
		),
		durations: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "casefolio",
				Subsystem: "storage",
				Name:      "operation_duration_seconds",
				Help:      "Duration of content storage operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// Registry returns the underlying Prometheus registry for exposition.
func (p *PrometheusMetrics) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusMetrics) Increment(name string, tags ...string) {
	p.operations.WithLabelValues(name).Inc()
}

func (p *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...string) {
	p.durations.WithLabelValues(name).Observe(duration.Seconds())
}
