package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/nano/internal/errors"
	"github.com/vango-dev/nano/pkg/nano"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// chdir moves the test into dir, with HOME pointing there too so the
// search path cannot pick up a real user file.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Scheduler.QueueSize != DefaultQueueSize {
		t.Errorf("Scheduler.QueueSize = %d, want %d", cfg.Scheduler.QueueSize, DefaultQueueSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, New().Dev, cfg.Dev)
	assert.Equal(t, New().Hydrate, cfg.Hydrate)
	assert.Empty(t, cfg.Path())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
dev:
  host: 0.0.0.0
  port: 8080
  metrics: false
log:
  level: debug
  format: json
scheduler:
  queue_size: 16
hydrate:
  lazy:
    visible: false
    interaction: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.DevAddress())
	assert.False(t, cfg.Dev.Metrics)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, 16, cfg.Scheduler.QueueSize)
	assert.Equal(t, DefaultMaxPasses, cfg.Scheduler.MaxPasses, "unset keys keep defaults")
	assert.Equal(t, nano.Trigger{Interaction: true}, cfg.Hydrate.Lazy.Trigger())
	assert.Equal(t, path, cfg.Path())
}

func TestLoadSearchesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "dev:\n  port: 4000\n")
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Dev.Port)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "dev:\n  port: 4000\nlog:\n  level: warn\n")
	t.Setenv("NANO_DEV_PORT", "5000")
	t.Setenv("NANO_HYDRATE_LAZY_IDLE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Dev.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Hydrate.Lazy.Idle)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, "N002"), "missing explicit file: %v", err)

	bad := writeConfig(t, dir, "dev: [unclosed\n")
	_, err = Load(bad)
	assert.True(t, errors.Is(err, "N002"), "malformed file: %v", err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Dev.Port = 0 }, "dev.port"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"queue", func(c *Config) { c.Scheduler.QueueSize = -1 }, "scheduler.queue_size"},
		{"passes", func(c *Config) { c.Scheduler.MaxPasses = 0 }, "scheduler.max_passes"},
		{"container", func(c *Config) { c.Hydrate.Container = "" }, "hydrate.container"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, "N001") || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want N001 mentioning %s", err, tt.want)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := New()
	cfg.Dev.Port = -1
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dev.port")
	assert.Contains(t, err.Error(), "log.format")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"k":"v"`)

	_, err = LogConfig{Level: "loud"}.NewLogger(&buf)
	assert.Error(t, err)
}

func TestWriteYAMLRoundTrips(t *testing.T) {
	cfg := New()
	cfg.Dev.Port = 9000
	cfg.Hydrate.Lazy = LazyConfig{Idle: true}

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "queue_size: 64")

	path := writeConfig(t, t.TempDir(), buf.String())
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, loaded.Dev.Port)
	assert.Equal(t, LazyConfig{Idle: true}, loaded.Hydrate.Lazy)
}

// replaceFile swaps path's content in one rename so watchers never see a
// partial write.
func replaceFile(t *testing.T, path, body string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(body), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestLoaderWatch(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "dev:\n  port: 4000\n")
	loader, err := NewLoader(path, nil)
	require.NoError(t, err)

	changes := make(chan *Config, 8)
	require.True(t, loader.Watch(func(c *Config) { changes <- c }))

	// An invalid file is rejected and the old configuration stays.
	replaceFile(t, path, "dev:\n  port: 0\n")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 4000, loader.Config().Dev.Port)

	replaceFile(t, path, "dev:\n  port: 4001\n")
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Dev.Port == 4001 {
				assert.Equal(t, 4001, loader.Config().Dev.Port)
				return
			}
		case <-deadline:
			t.Fatal("no reload")
		}
	}
}

func TestLoaderWatchWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())
	loader, err := NewLoader("", nil)
	require.NoError(t, err)
	assert.False(t, loader.Watch(nil))
}
