package main

import (
	"github.com/spf13/cobra"
)

func configCmd(flags *globalFlags) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying defaults, nano.yaml and
NANO_ environment variables, as a nano.yaml document.

With --check only validation runs.

Examples:
  nano config > nano.yaml
  nano config --check --config staging.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if check {
				if path := cfg.Path(); path != "" {
					success(cmd.OutOrStdout(), "%s is valid", path)
				} else {
					success(cmd.OutOrStdout(), "configuration is valid")
				}
				return nil
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "validate without printing")
	return cmd
}
