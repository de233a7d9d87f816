package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ja7ad/sysmon/pkg/config"
)

type globalOpts struct {
	configPath string
	logLevel   string
	source     string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var g globalOpts

	root := &cobra.Command{
		Use:   "sysmon",
		Short: "Live host and process monitor",
		Long: `sysmon samples CPU, memory, disk and network usage on independent
cadences, rebuilds the process tree every cycle and redraws a terminal
dashboard until interrupted.

Settings are merged from defaults, the --config YAML file, SYSMON_*
environment variables and command-line flags, later sources winning.

Examples:
  sysmon
  sysmon top --fps 10 --sort cpu --expand-tree
  sysmon tree --sort mem
  sysmon kill 12345 30000..30010
  sysmon config > sysmon.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(g.logLevel)
		},
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML settings file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.source, "source", config.SourceAuto, "metric backend (auto, procfs, psutil)")

	// bare "sysmon" runs the dashboard
	var df displayFlags
	bindDisplayFlags(root, &df)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runTop(cmd, &g, &df)
	}

	root.AddCommand(newTopCommand(&g), newTreeCommand(&g), newKillCommand(&g), newConfigCommand(&g))
	return root
}

func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return nil
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
