package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/nano/internal/errors"
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/render"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "nano"

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "NANO"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultQueueSize is the default capacity of the scheduler's
	// dispatch queue.
	DefaultQueueSize = 64

	// DefaultMaxPasses bounds the passes of a single flush.
	DefaultMaxPasses = 100
)

// Config is the complete nano configuration.
type Config struct {
	Dev       DevConfig       `mapstructure:"dev" yaml:"dev"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Hydrate   HydrateConfig   `mapstructure:"hydrate" yaml:"hydrate"`

	// path is the file the configuration was read from, if any.
	path string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Host is the host to bind to.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the port to run the dev server on.
	Port int `mapstructure:"port" yaml:"port"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `mapstructure:"metrics" yaml:"metrics"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// SchedulerConfig tunes the update scheduler.
type SchedulerConfig struct {
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"`
	MaxPasses int `mapstructure:"max_passes" yaml:"max_passes"`
}

// HydrateConfig controls hydration of served pages.
type HydrateConfig struct {
	// Container is the id of the element the page body is rendered into.
	Container string     `mapstructure:"container" yaml:"container"`
	Lazy      LazyConfig `mapstructure:"lazy" yaml:"lazy"`
}

// LazyConfig selects the lazy hydration triggers.
type LazyConfig struct {
	Visible     bool `mapstructure:"visible" yaml:"visible"`
	Idle        bool `mapstructure:"idle" yaml:"idle"`
	Interaction bool `mapstructure:"interaction" yaml:"interaction"`
}

// Trigger returns the configured triggers.
func (c LazyConfig) Trigger() nano.Trigger {
	return nano.Trigger{Visible: c.Visible, Idle: c.Idle, Interaction: c.Interaction}
}

// defaults are registered with every viper instance. Every key must have a
// default so that environment overrides reach Unmarshal.
var defaults = map[string]any{
	"dev.host":                 DefaultHost,
	"dev.port":                 DefaultPort,
	"dev.metrics":              true,
	"log.level":                "info",
	"log.format":               "text",
	"scheduler.queue_size":     DefaultQueueSize,
	"scheduler.max_passes":     DefaultMaxPasses,
	"hydrate.container":        render.DefaultContainerID,
	"hydrate.lazy.visible":     true,
	"hydrate.lazy.idle":        false,
	"hydrate.lazy.interaction": false,
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Dev:       DevConfig{Host: DefaultHost, Port: DefaultPort, Metrics: true},
		Log:       LogConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{QueueSize: DefaultQueueSize, MaxPasses: DefaultMaxPasses},
		Hydrate: HydrateConfig{
			Container: render.DefaultContainerID,
			Lazy:      LazyConfig{Visible: true},
		},
	}
}

// Load reads the configuration. An empty path searches for nano.yaml and
// falls back to defaults and environment when none exists; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	v := newViper(path)
	if err := read(v, path); err != nil {
		return nil, err
	}
	return decode(v)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/nano")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func read(v *viper.Viper, path string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if path == "" && stderrors.As(err, &notFound) {
		return nil
	}
	detail := path
	if detail == "" {
		detail = ConfigName + ".yaml"
	}
	return errors.New("N002").WithDetail(detail).Wrap(err)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("N002").Wrap(err)
	}
	cfg.path = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was read from, or "" when it
// came from defaults and environment only.
func (c *Config) Path() string {
	return c.path
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, errors.New("N001").WithDetailf(format, args...))
	}

	if c.Dev.Port < 1 || c.Dev.Port > 65535 {
		invalid("dev.port must be between 1 and 65535, got %d", c.Dev.Port)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		invalid("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Scheduler.QueueSize < 0 {
		invalid("scheduler.queue_size must not be negative, got %d", c.Scheduler.QueueSize)
	}
	if c.Scheduler.MaxPasses < 1 {
		invalid("scheduler.max_passes must be at least 1, got %d", c.Scheduler.MaxPasses)
	}
	if c.Hydrate.Container == "" {
		invalid("hydrate.container must not be empty")
	}
	return stderrors.Join(errs...)
}

// WriteYAML writes c as a nano.yaml document.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// DevAddress returns the dev server listen address.
func (c *Config) DevAddress() string {
	return net.JoinHostPort(c.Dev.Host, strconv.Itoa(c.Dev.Port))
}

// DevURL returns the dev server URL.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// NewLogger returns a logger writing to w in the configured format and at
// the configured level.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return level, nil
}

// Loader holds a configuration that follows its file.
type Loader struct {
	v      *viper.Viper
	logger *slog.Logger

	mu      sync.RWMutex
	current *Config
}

// NewLoader loads the configuration as Load does and keeps the underlying
// viper instance for Watch.
func NewLoader(path string, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := newViper(path)
	if err := read(v, path); err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Loader{v: v, logger: logger, current: cfg}, nil
}

// Config returns the current configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Watch starts watching the configuration file. fn is called on the
// watcher's goroutine with each new valid configuration. An invalid file
// is logged and the previous configuration stays current. Without a file
// Watch does nothing and returns false.
func (l *Loader) Watch(fn func(*Config)) bool {
	if l.v.ConfigFileUsed() == "" {
		return false
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(l.v)
		if err != nil {
			l.logger.Warn("config reload rejected",
				"file", e.Name,
				"error", errors.New("N003").Wrap(err))
			return
		}
		l.mu.Lock()
		l.current = cfg
		l.mu.Unlock()
		l.logger.Info("config reloaded", "file", e.Name)
		if fn != nil {
			fn(cfg)
		}
	})
	l.v.WatchConfig()
	return true
}
