// Package metrics provides Prometheus metrics for the EEG forward
// validation harness.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager manages all Prometheus metrics for the harness.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Pipeline timing
	stageDuration *prometheus.HistogramVec
	solveDuration prometheus.Histogram

	// Run bookkeeping
	runsTotal      *prometheus.CounterVec
	electrodeCount prometheus.Gauge

	// Comparison results of the latest run
	normAnalytical prometheus.Gauge
	normNumerical  prometheus.Gauge
	relativeError  prometheus.Gauge
	magnitudeError prometheus.Gauge
	rdm            prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "eeg_forward_test",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.stageDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each pipeline stage.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"stage"})

	m.solveDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "solve_duration_seconds",
		Help:      "Wall time of the numerical forward solve.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	m.runsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "runs_total",
		Help:      "Completed comparison runs by outcome.",
	}, []string{"outcome"})

	m.electrodeCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "electrode_count",
		Help:      "Number of electrodes in the current run.",
	})

	m.normAnalytical = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "norm_analytical",
		Help:      "Norm of the normalized analytical potential vector.",
	})
	m.normNumerical = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "norm_numerical",
		Help:      "Norm of the normalized numerical potential vector.",
	})
	m.relativeError = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "relative_error",
		Help:      "Relative error of the latest comparison.",
	})
	m.magnitudeError = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "magnitude_error",
		Help:      "MAG of the latest comparison.",
	})
	m.rdm = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "relative_difference_measure",
		Help:      "RDM of the latest comparison.",
	})

	return m
}

// ObserveStage records the duration of a named pipeline stage.
func ObserveStage(stage string, d time.Duration) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveSolve records the duration of the numerical forward solve.
func ObserveSolve(d time.Duration) {
	globalManager.solveDuration.Observe(d.Seconds())
}

// RecordRun counts a finished run by outcome.
func RecordRun(outcome string) {
	globalManager.runsTotal.WithLabelValues(outcome).Inc()
}

// SetElectrodeCount records the electrode count of the current run.
func SetElectrodeCount(n int) {
	globalManager.electrodeCount.Set(float64(n))
}

// SetComparison records the five reported comparison values.
func SetComparison(normAnalytical, normNumerical, relativeError, mag, rdm float64) {
	globalManager.normAnalytical.Set(normAnalytical)
	globalManager.normNumerical.Set(normNumerical)
	globalManager.relativeError.Set(relativeError)
	globalManager.magnitudeError.Set(mag)
	globalManager.rdm.Set(rdm)
}

// Handler exposes the global registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
