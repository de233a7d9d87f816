package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/sysmon/pkg/process"
	"github.com/ja7ad/sysmon/pkg/render"
)

func newTreeCommand(g *globalOpts) *cobra.Command {
	var (
		df     displayFlags
		window time.Duration
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the process tree once",
		Long: `tree enumerates processes twice, window apart, so CPU percent reflects
that window, then prints the reconciled tree fully expanded unless
--expand-tree=false is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, &df)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("expand-tree") {
				cfg.ExpandTree = true
			}
			src, err := openSources(cfg)
			if err != nil {
				return err
			}

			ps := src.process
			if err := ps.Init(); err != nil {
				return fmt.Errorf("%w: %w", process.ErrSourceInit, err)
			}
			defer ps.Shutdown()

			if _, err := ps.Enumerate(); err != nil {
				slog.Debug("baseline enumeration", "err", err)
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(window):
			}

			records, err := ps.Enumerate()
			if err != nil {
				if len(records) == 0 {
					return err
				}
				slog.Warn("partial enumeration", "records", len(records), "err", err)
			}

			opts := renderOptions(cfg)
			opts.Colors = false
			return render.ProcessTable(os.Stdout, process.Reconcile(records), opts)
		},
	}
	bindDisplayFlags(cmd, &df)
	cmd.Flags().DurationVarP(&window, "window", "w", 500*time.Millisecond, "CPU measurement window")
	return cmd
}
