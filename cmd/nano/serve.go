package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nano/internal/config"
	"github.com/vango-dev/nano/internal/demo"
	"github.com/vango-dev/nano/internal/dev"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the development server",
		Long: `Start the development server with the demo pages.

Each browser tab gets a live session: the page is rendered on the
server, hydrated in a server-side document, and every event the browser
reports is applied there and streamed back as a patch.

The config file is watched while the server runs. Valid changes apply
to new sessions and reload connected browsers.

Examples:
  nano serve
  nano serve --port=8080
  NANO_DEV_HOST=0.0.0.0 nano serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to run on (default from nano.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "host to bind to (default from nano.yaml)")
	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, port int, host string) error {
	cfgLoader, err := config.NewLoader(flags.configPath, nil)
	if err != nil {
		return err
	}
	cfg := cfgLoader.Config()

	// Command-line overrides survive config reloads.
	override := func(c *config.Config) {
		if port > 0 {
			c.Dev.Port = port
		}
		if host != "" {
			c.Dev.Host = host
		}
	}
	override(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := flags.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	// The loader logs reloads through the default logger.
	slog.SetDefault(logger)

	srv := dev.NewServer(dev.Options{
		Config:  cfg,
		Catalog: demo.Catalog(),
		Logger:  logger,
	})
	watching := cfgLoader.Watch(func(next *config.Config) {
		override(next)
		if next.DevAddress() != cfg.DevAddress() {
			logger.Warn("listen address changes need a restart", "address", cfg.DevAddress())
		}
		srv.SetConfig(next)
	})

	out := cmd.OutOrStdout()
	fmt.Fprint(out, banner)
	fmt.Fprintln(out)
	success(out, "Serving on %s", cfg.DevURL())
	for _, p := range demo.Pages() {
		info(out, "%s/p/%s", cfg.DevURL(), p.Name)
	}
	if watching {
		info(out, "watching %s", cfg.Path())
	}
	fmt.Fprintln(out)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "\n  Shutting down...")
	return nil
}
