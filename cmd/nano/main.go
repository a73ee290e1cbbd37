package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nano/internal/config"
	"github.com/vango-dev/nano/internal/demo"
	"github.com/vango-dev/nano/internal/dev"
	"github.com/vango-dev/nano/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┐┌┌─┐┌┐┌┌─┐
  │││├─┤││││ │
  ┘└┘┴ ┴┘└┘└─┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "nano",
		Short: "Render, hydrate and serve nano component trees",
		Long: `nano renders component trees to HTML on the server, hydrates them
over existing markup and serves them live from a development server.

Configuration is read from nano.yaml in the working directory, or the
file given with --config. Every key can be overridden with a NANO_
environment variable, e.g. NANO_DEV_PORT=8080.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default: ./nano.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		renderCmd(flags),
		inspectCmd(flags),
		hydrateCheckCmd(flags),
		serveCmd(flags),
		benchCmd(flags),
		configCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration and builds the logger it describes.
func (f *globalFlags) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := f.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func (f *globalFlags) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	logger, err := cfg.Log.NewLogger(w)
	if err != nil {
		return nil, errors.New("N001").WithDetailf("log.level: %v", err)
	}
	return logger, nil
}

// lookupPage returns the demo page called name.
func lookupPage(name string) (dev.Page, error) {
	page, ok := demo.Catalog().Lookup(name)
	if !ok {
		return dev.Page{}, errors.New("N021").
			WithDetail(name).
			WithSuggestion("available pages: " + strings.Join(pageNames(), ", "))
	}
	return page, nil
}

func pageNames() []string {
	var names []string
	for _, p := range demo.Pages() {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
