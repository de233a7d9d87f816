package main

import (
	"github.com/spf13/cobra"
)

func newConfigCommand(g *globalOpts) *cobra.Command {
	var df displayFlags
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as YAML",
		Long: `config merges defaults, --config, SYSMON_* variables and flags exactly
as top does, validates the result and prints it. The output is a valid
--config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, &df)
			if err != nil {
				return err
			}
			b, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	bindDisplayFlags(cmd, &df)
	return cmd
}
