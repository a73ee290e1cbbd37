package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nano/internal/config"
	"github.com/vango-dev/nano/internal/errors"
	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/scheduler"
	"github.com/vango-dev/nano/pkg/vdom"
)

func hydrateCheckCmd(flags *globalFlags) *cobra.Command {
	var (
		pageName string
		lazy     bool
	)

	cmd := &cobra.Command{
		Use:   "hydrate-check <file.html>",
		Short: "Hydrate a page over saved markup and report mismatches",
		Long: `Parse an HTML file, hydrate a page's tree over the container element
and report every repair hydration had to make.

Markup produced by "nano render" for the same page hydrates without
mismatches. Any mismatch makes the command fail.

With --lazy the hydration is deferred with the triggers from
hydrate.lazy and started by simulating them in order: idle,
interaction, then visibility.

Examples:
  nano render todos -o todos.html && nano hydrate-check todos.html --page todos
  nano hydrate-check saved.html --page counter --lazy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd)
			if err != nil {
				return err
			}
			page, err := lookupPage(pageName)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return errors.New("N081").WithDetail(args[0]).Wrap(err)
			}
			defer f.Close()
			doc, err := dom.ParseHTML(f)
			if err != nil {
				return errors.New("N042").WithDetail(args[0]).Wrap(err)
			}
			container := doc.GetElementByID(cfg.Hydrate.Container)
			if container == nil {
				return errors.New("N041").WithDetailf("no element with id %q in %s", cfg.Hydrate.Container, args[0])
			}

			sched := scheduler.New(
				scheduler.WithLogger(logger),
				scheduler.WithMaxPasses(cfg.Scheduler.MaxPasses),
			)
			opts := []nano.Option{nano.WithScheduler(sched), nano.WithLogger(logger)}

			rec := dom.NewRecorder(doc)
			var root *nano.Root
			if lazy {
				root, err = hydrateLazily(cmd.Context(), cmd.OutOrStdout(), doc, container, page.Body, cfg, sched, opts)
			} else {
				root, err = nano.Hydrate(container, page.Body(), opts...)
			}
			rec.Stop()
			if root != nil {
				defer root.Destroy()
			}
			if err != nil && root == nil {
				return errors.New("N040").WithDetail(args[0]).Wrap(err)
			}

			out := cmd.OutOrStdout()
			mismatches := root.HydrationMismatches()
			report(out, rec)
			if err != nil {
				warn(out, "hydration finished with errors: %v", err)
			}
			if mismatches > 0 {
				return errors.New("N040").
					WithDetailf("%s: %d mismatches, %d mutations", args[0], mismatches, rec.Len()).
					WithSuggestion(fmt.Sprintf(`re-render the markup with "nano render %s"`, page.Name))
			}
			success(out, "%s hydrates cleanly as %s", args[0], page.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pageName, "page", "p", "", "page whose tree is hydrated")
	cmd.Flags().BoolVar(&lazy, "lazy", false, "defer hydration with the configured lazy triggers")
	cmd.MarkFlagRequired("page")
	return cmd
}

// hydrateLazily defers the hydration and fires the configured triggers
// until one of them starts it. A trigger set that none of the simulated
// steps satisfies falls back to a manual hydration.
func hydrateLazily(
	ctx context.Context,
	w io.Writer,
	doc *dom.Document,
	container *dom.Node,
	body func() *vdom.VNode,
	cfg *config.Config,
	sched *scheduler.Scheduler,
	opts []nano.Option,
) (*nano.Root, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	trigger := cfg.Hydrate.Lazy.Trigger()
	lr := nano.HydrateLazy(ctx, container, body(), trigger, opts...)

	steps := []func(){
		func() {
			if trigger.Idle {
				sched.Flush()
			}
		},
		func() {
			if trigger.Interaction {
				container.Dispatch(dom.NewEvent("pointerdown"))
			}
		},
		func() {
			doc.SetVisible(container, true)
		},
	}
	for _, step := range steps {
		if lr.Hydrated() {
			break
		}
		step()
	}
	if !lr.Hydrated() {
		lr.Hydrate()
	}
	<-lr.Done()

	if lr.Hydrated() {
		info(w, "lazy hydration started by %s", lr.Reason())
	}
	return lr.Root()
}

func report(w io.Writer, rec *dom.Recorder) {
	if rec.Len() == 0 {
		info(w, "no mutations")
		return
	}
	counts := make(map[string]int)
	for _, m := range rec.Mutations() {
		counts[m.Op.String()]++
	}
	ops := make([]string, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	info(w, "%d mutations:", rec.Len())
	for _, op := range ops {
		info(w, "  %-10s %d", op, counts[op])
	}
}
