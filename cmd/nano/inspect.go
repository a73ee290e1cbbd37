package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/nano/internal/errors"
	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/scheduler"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <page>",
		Short: "Mount a page and dump its component tree",
		Long: `Mount a page into an empty document and print the mounted tree:
components with their lifecycle phase, elements with their bound event
handlers, and keys.

Examples:
  nano inspect todos
  nano inspect counter --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd)
			if err != nil {
				return err
			}
			page, err := lookupPage(args[0])
			if err != nil {
				return err
			}

			doc := dom.NewDocument()
			container := doc.CreateElement("div")
			container.SetAttribute("id", cfg.Hydrate.Container)
			doc.Body().AppendChild(container)

			sched := scheduler.New(
				scheduler.WithLogger(logger),
				scheduler.WithMaxPasses(cfg.Scheduler.MaxPasses),
			)
			root, err := nano.Render(container, page.Body(), nano.WithScheduler(sched), nano.WithLogger(logger))
			if err != nil {
				return errors.New("N020").WithDetail(page.Name).Wrap(err)
			}
			defer root.Destroy()

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(root.Inspect()); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(root.Inspect())
			default:
				return errors.New("N080").WithDetailf("unknown format %q", format).
					WithSuggestion("use --format yaml or --format json")
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml or json)")
	return cmd
}
