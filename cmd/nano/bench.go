package main

import (
	"encoding/json"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nano/internal/bench"
	"github.com/vango-dev/nano/internal/errors"
)

func benchCmd(flags *globalFlags) *cobra.Command {
	var (
		profile  string
		clients  int
		duration time.Duration
		rate     float64
		listSize int
		payload  int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load test the dev server with simulated browsers",
		Long: `Start a dev server on a loopback port and drive it with concurrent
WebSocket clients. Each client sends input events at a fixed rate and
waits for the patch that echoes its value back.

Flags override the selected profile.

Examples:
  nano bench
  nano bench --profile stress
  nano bench --clients 50 --duration 20s --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := flags.load(cmd)
			if err != nil {
				return err
			}
			opts, ok := bench.Profiles[profile]
			if !ok {
				return errors.New("N080").
					WithDetailf("unknown profile %q", profile).
					WithSuggestion("available profiles: " + strings.Join(profileNames(), ", "))
			}
			f := cmd.Flags()
			if f.Changed("clients") {
				opts.Clients = clients
			}
			if f.Changed("duration") {
				opts.Duration = duration
			}
			if f.Changed("rps") {
				opts.Rate = rate
			}
			if f.Changed("list") {
				opts.ListSize = listSize
			}
			if f.Changed("payload-bytes") {
				opts.PayloadBytes = payload
			}
			opts.Logger = logger
			if err := opts.Validate(); err != nil {
				return errors.New("N080").Wrap(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !asJSON {
				info(cmd.ErrOrStderr(), "Running %d clients for %s...", opts.Clients, opts.Duration)
			}
			report, err := bench.Run(ctx, opts)
			if err != nil {
				return errors.New("N060").WithDetail("benchmark run").Wrap(err)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			report.WriteSummary(w)
			if report.Errors.Total() > 0 {
				warn(w, "%d of %d clients failed", report.Errors.Total(), opts.Clients)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "fast", "option set: "+strings.Join(profileNames(), ", "))
	cmd.Flags().IntVar(&clients, "clients", 0, "concurrent sessions")
	cmd.Flags().DurationVar(&duration, "duration", 0, "how long clients send events")
	cmd.Flags().Float64Var(&rate, "rps", 0, "events per second per client")
	cmd.Flags().IntVar(&listSize, "list", 0, "list items on the benchmark page")
	cmd.Flags().IntVar(&payload, "payload-bytes", 0, "size of each event value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func profileNames() []string {
	names := make([]string, 0, len(bench.Profiles))
	for name := range bench.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
