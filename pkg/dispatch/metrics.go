package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchOutcome classifies how a single HandleEvent call ended.
type DispatchOutcome string

const (
	// OutcomeSuccess indicates the event was fully processed: the
	// callback ran, its verdict (if any) was persisted, and the event
	// was marked processed.
	OutcomeSuccess DispatchOutcome = "success"

	// OutcomeError indicates HandleEvent returned an error.
	OutcomeError DispatchOutcome = "error"

	// OutcomeSkipped indicates the event was dropped without invoking the
	// callback: the generation gate skipped it, or it was an Error-action
	// event.
	OutcomeSkipped DispatchOutcome = "skipped"
)

// MetricsProvider records operational metrics for an EventDispatcher.
// NewPrometheusMetricsProvider builds a Prometheus-backed implementation;
// an EventDispatcher without a WithMetrics option uses
// NoopMetricsProvider().
type MetricsProvider interface {
	// RecordDispatchDuration records how long a HandleEvent call took.
	RecordDispatchDuration(crdName string, duration time.Duration, outcome DispatchOutcome)

	// RecordDispatchTotal increments the total HandleEvent counter.
	RecordDispatchTotal(crdName string, outcome DispatchOutcome)

	// RecordRetry records that an event is being retried after attempt.
	RecordRetry(crdName string, attempt int)
}

// PrometheusMetricsConfig configures NewPrometheusMetricsProvider. The
// defaults named below are those of DefaultPrometheusMetricsConfig, used
// when a nil config is passed; zero fields of a non-nil config are not
// filled in, and a nil Registry skips registration.
type PrometheusMetricsConfig struct {
	// Namespace is the Prometheus namespace for all metrics. Default:
	// "dispatch".
	Namespace string

	// Subsystem is the Prometheus subsystem for all metrics. Default:
	// "controller".
	Subsystem string

	// DurationBuckets are the histogram buckets for dispatch duration.
	DurationBuckets []float64

	// Registry is the Prometheus registry to register metrics against.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// DefaultPrometheusMetricsConfig returns the default metrics configuration.
func DefaultPrometheusMetricsConfig() *PrometheusMetricsConfig {
	return &PrometheusMetricsConfig{
		Namespace:       "dispatch",
		Subsystem:       "controller",
		DurationBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		Registry:        prometheus.DefaultRegisterer,
	}
}

type prometheusMetricsProvider struct {
	dispatchDuration *prometheus.HistogramVec
	dispatchTotal    *prometheus.CounterVec
	retries          *prometheus.CounterVec
}

// NewPrometheusMetricsProvider builds a MetricsProvider backed by
// Prometheus, registering its metrics against cfg.Registry.
func NewPrometheusMetricsProvider(cfg *PrometheusMetricsConfig) MetricsProvider {
	if cfg == nil {
		cfg = DefaultPrometheusMetricsConfig()
	}

	mp := &prometheusMetricsProvider{
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of HandleEvent calls in seconds",
			Buckets:   cfg.DurationBuckets,
		}, []string{"crd", "outcome"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "dispatch_total",
			Help:      "Total number of HandleEvent calls",
		}, []string{"crd", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "retries_total",
			Help:      "Total number of retried events",
		}, []string{"crd"}),
	}

	if cfg.Registry != nil {
		cfg.Registry.MustRegister(mp.dispatchDuration, mp.dispatchTotal, mp.retries)
	}
	return mp
}

func (mp *prometheusMetricsProvider) RecordDispatchDuration(crdName string, duration time.Duration, outcome DispatchOutcome) {
	mp.dispatchDuration.WithLabelValues(crdName, string(outcome)).Observe(duration.Seconds())
}

func (mp *prometheusMetricsProvider) RecordDispatchTotal(crdName string, outcome DispatchOutcome) {
	mp.dispatchTotal.WithLabelValues(crdName, string(outcome)).Inc()
}

func (mp *prometheusMetricsProvider) RecordRetry(crdName string, attempt int) {
	mp.retries.WithLabelValues(crdName).Inc()
}

type noopMetricsProvider struct{}

// NoopMetricsProvider returns a MetricsProvider that discards everything.
// It is the EventDispatcher's default when no WithMetrics option is given.
func NoopMetricsProvider() MetricsProvider { return noopMetricsProvider{} }

func (noopMetricsProvider) RecordDispatchDuration(string, time.Duration, DispatchOutcome) {}
func (noopMetricsProvider) RecordDispatchTotal(string, DispatchOutcome)                    {}
func (noopMetricsProvider) RecordRetry(string, int)                                        {}
