package scheduler

import "log/slog"

// DefaultQueueSize is the default capacity of the Dispatch queue.
const DefaultQueueSize = 256

// DefaultMaxPasses bounds the passes a single flush may run.
const DefaultMaxPasses = 100

type config struct {
	logger    *slog.Logger
	onError   func(error)
	onPass    func(PassStats)
	queueSize int
	maxPasses int
}

func defaultConfig() config {
	return config{
		logger:    slog.Default(),
		queueSize: DefaultQueueSize,
		maxPasses: DefaultMaxPasses,
	}
}

// Option configures a Scheduler.
type Option func(*config)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorHandler sets the handler for pass failures that no caller is
// waiting on. The default logs them at error level.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithPassObserver sets a callback invoked after every pass.
func WithPassObserver(fn func(PassStats)) Option {
	return func(c *config) {
		c.onPass = fn
	}
}

// WithQueueSize sets the Dispatch queue capacity.
func WithQueueSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithMaxPasses bounds how many passes one flush may run before pending work
// is dropped with ErrPassLimit. Zero disables the limit.
func WithMaxPasses(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxPasses = n
		}
	}
}
