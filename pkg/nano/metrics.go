package nano

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/scheduler"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "nano").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
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
		Namespace: "nano",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the runtime's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
//
// Metrics collected:
//   - nano_passes_total: Counter of scheduler passes
//   - nano_pass_errors_total: Counter of passes that reported an error
//   - nano_pass_duration_seconds: Histogram of pass duration
//   - nano_dom_mutations_total: Counter of DOM mutations by op
//   - nano_hydration_mismatches_total: Counter of hydration mismatches by reason
//   - nano_lifecycle_errors_total: Counter of component errors by phase
//   - nano_mounted_components: Gauge of mounted component instances
type Metrics struct {
	passes          prometheus.Counter
	passErrors      prometheus.Counter
	passDuration    prometheus.Histogram
	mutations       *prometheus.CounterVec
	mismatches      *prometheus.CounterVec
	lifecycleErrors *prometheus.CounterVec
	mounted         prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of reconciliation passes",
			ConstLabels: config.ConstLabels,
		}),

		passErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_errors_total",
			Help:        "Total number of passes that reported an error",
			ConstLabels: config.ConstLabels,
		}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Reconciliation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dom_mutations_total",
			Help:        "Total DOM mutations applied by the reconciler",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hydration_mismatches_total",
			Help:        "Total hydration mismatches by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		lifecycleErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifecycle_errors_total",
			Help:        "Total component lifecycle errors by phase",
			ConstLabels: config.ConstLabels,
		}, []string{"phase"}),

		mounted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_components",
			Help:        "Number of mounted component instances",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObservePass records a scheduler pass. Pass it to
// scheduler.WithPassObserver.
func (m *Metrics) ObservePass(stats scheduler.PassStats) {
	if m == nil {
		return
	}
	m.passes.Inc()
	m.passDuration.Observe(stats.Duration.Seconds())
	if stats.Err != nil {
		m.passErrors.Inc()
	}
}

func (m *Metrics) observeMutation(mu dom.Mutation) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(mu.Op.String()).Inc()
}

func (m *Metrics) hydrationMismatch(reason string) {
	if m == nil {
		return
	}
	m.mismatches.WithLabelValues(reason).Inc()
}

func (m *Metrics) lifecycleError(phase Hook) {
	if m == nil {
		return
	}
	m.lifecycleErrors.WithLabelValues(string(phase)).Inc()
}

func (m *Metrics) componentMounted() {
	if m == nil {
		return
	}
	m.mounted.Inc()
}

func (m *Metrics) componentUnmounted() {
	if m == nil {
		return
	}
	m.mounted.Dec()
}
