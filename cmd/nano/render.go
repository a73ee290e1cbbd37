package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nano/internal/errors"
	"github.com/vango-dev/nano/pkg/render"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		output   string
		fragment bool
	)

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Render a page to HTML",
		Long: `Render a page on the server and write the HTML document.

With --fragment only the page body is written, without the document
shell.

Examples:
  nano render counter
  nano render todos --output todos.html
  nano render clock --fragment`,
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

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.New("N080").WithDetail(output).Wrap(err)
				}
				defer f.Close()
				w = f
			}

			renderer := render.NewRenderer(render.Config{Logger: logger})
			if fragment {
				err = renderer.RenderToWriter(w, page.Body())
			} else {
				err = renderer.RenderPage(w, render.PageData{
					Title:       page.Title,
					Body:        page.Body(),
					ContainerID: cfg.Hydrate.Container,
				})
			}
			if err != nil {
				return errors.New("N020").WithDetail(page.Name).Wrap(err)
			}
			if fragment {
				io.WriteString(w, "\n")
			}
			if output != "" {
				success(cmd.ErrOrStderr(), "Rendered %s to %s", page.Name, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "render only the page body")
	return cmd
}
