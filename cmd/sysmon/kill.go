package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ja7ad/sysmon/pkg/process"
	"github.com/ja7ad/sysmon/pkg/system/util"
)

func newKillCommand(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "kill PID|PID..PID...",
		Short: "Ask processes to terminate (SIGTERM)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pids, err := util.ParsePIDs(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, g, nil)
			if err != nil {
				return err
			}
			src, err := openSources(cfg)
			if err != nil {
				return err
			}

			engine := process.NewEngine(src.process, process.EngineConfig{})
			var errs []error
			for _, pid := range pids {
				if err := engine.Terminate(pid); err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "terminate sent to pid %d\n", pid)
			}
			return errors.Join(errs...)
		},
	}
}
