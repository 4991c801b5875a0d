package inertia

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "inertia").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for prop resolution time.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "inertia",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics collects page rendering metrics. A nil *Metrics records nothing.
//
// Collected:
//   - inertia_pages_total: pages finalized, by component and format
//     (json, html, passthrough)
//   - inertia_partial_reloads_total: partial reloads, by component
//   - inertia_dialog_dispatches_total: base page dispatches, by outcome
//     (page, redirect, passthrough)
//   - inertia_version_conflicts_total: stale asset versions answered with 409
//   - inertia_resolve_duration_seconds: prop resolution time
type Metrics struct {
	pages     *prometheus.CounterVec
	partials  *prometheus.CounterVec
	dialogs   *prometheus.CounterVec
	conflicts prometheus.Counter
	resolve   prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
//
//	m := inertia.NewMetrics(inertia.WithNamespace("myapp"))
//	f := inertia.New(inertia.WithMetrics(m))
//	http.Handle("/metrics", promhttp.Handler())
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		pages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pages_total",
			Help:        "Total number of pages finalized",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "format"}),

		partials: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "partial_reloads_total",
			Help:        "Total number of partial reloads served",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		dialogs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dialog_dispatches_total",
			Help:        "Total number of dialog base page dispatches by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		conflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "version_conflicts_total",
			Help:        "Total number of requests rejected for a stale asset version",
			ConstLabels: config.ConstLabels,
		}),

		resolve: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolve_duration_seconds",
			Help:        "Prop resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

func (m *Metrics) pageFinalized(component, format string) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(component, format).Inc()
}

func (m *Metrics) partialReload(component string) {
	if m == nil {
		return
	}
	m.partials.WithLabelValues(component).Inc()
}

func (m *Metrics) dialogDispatch(outcome string) {
	if m == nil {
		return
	}
	m.dialogs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) versionConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

func (m *Metrics) observeResolve(d time.Duration) {
	if m == nil {
		return
	}
	m.resolve.Observe(d.Seconds())
}
