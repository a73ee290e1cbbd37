package nano

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/nano/pkg/scheduler"
)

type config struct {
	scheduler *scheduler.Scheduler
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

// Option configures a Root.
type Option func(*config)

// WithScheduler sets the scheduler that batches component updates.
// Default: scheduler.Default().
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for render, update and hydrate spans.
// Default: the global OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}

func buildConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.scheduler == nil {
		cfg.scheduler = scheduler.Default()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = defaultTracer()
	}
	return cfg
}
