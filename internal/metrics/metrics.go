// Package metrics exposes Prometheus instrumentation for harness runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"membench/internal/benchmark"
)

// Metrics represents the collection of all Prometheus metrics. It
// implements the harness Observer contract.
type Metrics struct {
	registry *prometheus.Registry

	TrialDuration  *prometheus.HistogramVec
	BytesProcessed *prometheus.CounterVec
	LevelsTotal    prometheus.Counter
	RunsTotal      *prometheus.CounterVec
	OrderingFailed prometheus.Counter
	LastLevelMean  *prometheus.GaugeVec
}

// NewMetrics creates and registers all harness metrics on a private
// registry, so repeated construction (e.g. in tests) cannot collide.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.TrialDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "membench_trial_duration_seconds",
			Help:    "Duration of individual timed operations",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"variant"},
	)

	m.BytesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membench_bytes_processed_total",
			Help: "Total bytes touched by timed operations",
		},
		[]string{"variant"},
	)

	m.LevelsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "membench_levels_total",
			Help: "Total number of completed size levels",
		},
	)

	m.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membench_runs_total",
			Help: "Total number of harness runs by outcome",
		},
		[]string{"status"},
	)

	m.OrderingFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "membench_ordering_violations_total",
			Help: "Total number of first-level ordering assertion failures",
		},
	)

	m.LastLevelMean = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "membench_level_mean_ns",
			Help: "Mean duration of the most recent level per variant",
		},
		[]string{"variant"},
	)

	m.registry.MustRegister(
		m.TrialDuration,
		m.BytesProcessed,
		m.LevelsTotal,
		m.RunsTotal,
		m.OrderingFailed,
		m.LastLevelMean,
	)

	return m
}

// ObserveTrial records one timed operation.
func (m *Metrics) ObserveTrial(variant string, sizeBytes int64, elapsed time.Duration) {
	m.TrialDuration.WithLabelValues(variant).Observe(elapsed.Seconds())
	m.BytesProcessed.WithLabelValues(variant).Add(float64(sizeBytes))
}

// ObserveLevel records the aggregates of a completed size level.
func (m *Metrics) ObserveLevel(level benchmark.Level) {
	m.LevelsTotal.Inc()
	m.LastLevelMean.WithLabelValues("seq_fill").Set(float64(level.SeqFillNs))
	m.LastLevelMean.WithLabelValues("par_fill").Set(float64(level.ParFillNs))
	m.LastLevelMean.WithLabelValues("seq_copy").Set(float64(level.SeqCopyNs))
	m.LastLevelMean.WithLabelValues("par_copy").Set(float64(level.ParCopyNs))
}

// RunCompleted records the outcome of a full harness run.
func (m *Metrics) RunCompleted(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}

// OrderingViolation records a first-level assertion failure.
func (m *Metrics) OrderingViolation() {
	m.OrderingFailed.Inc()
}

// Handler returns the Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
