package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/sysmon/pkg/config"
)

// displayFlags mirror the config fields that can be set on the command line.
type displayFlags struct {
	cpuInterval     time.Duration
	memoryInterval  time.Duration
	diskInterval    time.Duration
	networkInterval time.Duration
	processInterval time.Duration

	fps             int
	cpuThreshold    float64
	memoryThreshold float64

	noColors     bool
	expandTree   bool
	perCore      bool
	maxProcesses int
	sortBy       string
	smoothing    float64
}

func bindDisplayFlags(cmd *cobra.Command, f *displayFlags) {
	def := config.Default()
	fl := cmd.Flags()

	fl.DurationVar(&f.cpuInterval, "cpu-interval", def.CPUInterval, "CPU sampling interval (100ms..10s)")
	fl.DurationVar(&f.memoryInterval, "memory-interval", def.MemoryInterval, "memory sampling interval (1s..1h)")
	fl.DurationVar(&f.diskInterval, "disk-interval", def.DiskInterval, "disk sampling interval")
	fl.DurationVar(&f.networkInterval, "network-interval", def.NetworkInterval, "network sampling interval")
	fl.DurationVar(&f.processInterval, "process-interval", def.ProcessInterval, "process tree rebuild interval")

	fl.IntVar(&f.fps, "fps", def.RefreshRate, "frames per second (1..120)")
	fl.Float64Var(&f.cpuThreshold, "cpu-threshold", def.CPUAlertThreshold, "CPU alert threshold in percent")
	fl.Float64Var(&f.memoryThreshold, "memory-threshold", def.MemoryAlertThreshold, "memory alert threshold in percent")

	fl.BoolVar(&f.noColors, "no-colors", false, "disable ANSI colors")
	fl.BoolVar(&f.expandTree, "expand-tree", def.ExpandTree, "expand every level of the process tree")
	fl.BoolVar(&f.perCore, "per-core", def.ShowPerCore, "show per-core CPU gauges")
	fl.IntVar(&f.maxProcesses, "max-processes", def.MaxProcessDisplay, "maximum process rows (0 = unlimited)")
	fl.StringVar(&f.sortBy, "sort", def.SortBy, "process order (pid, cpu, mem)")
	fl.Float64Var(&f.smoothing, "smoothing", def.CPUSmoothing, "EMA alpha for overall CPU percent [0..1], 0 = off")
}

// loadConfig merges defaults < --config file < environment < changed flags
// and validates the result. Flags not bound on cmd are simply never Changed.
func loadConfig(cmd *cobra.Command, g *globalOpts, f *displayFlags) (config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		if err := cfg.LoadFile(g.configPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	fl := cmd.Flags()
	if fl.Changed("source") {
		cfg.Source = g.source
	}
	if f != nil {
		changed := map[string]func(){
			"cpu-interval":     func() { cfg.CPUInterval = f.cpuInterval },
			"memory-interval":  func() { cfg.MemoryInterval = f.memoryInterval },
			"disk-interval":    func() { cfg.DiskInterval = f.diskInterval },
			"network-interval": func() { cfg.NetworkInterval = f.networkInterval },
			"process-interval": func() { cfg.ProcessInterval = f.processInterval },
			"fps":              func() { cfg.RefreshRate = f.fps },
			"cpu-threshold":    func() { cfg.CPUAlertThreshold = f.cpuThreshold },
			"memory-threshold": func() { cfg.MemoryAlertThreshold = f.memoryThreshold },
			"no-colors":        func() { cfg.UseColors = !f.noColors },
			"expand-tree":      func() { cfg.ExpandTree = f.expandTree },
			"per-core":         func() { cfg.ShowPerCore = f.perCore },
			"max-processes":    func() { cfg.MaxProcessDisplay = f.maxProcesses },
			"sort":             func() { cfg.SortBy = f.sortBy },
			"smoothing":        func() { cfg.CPUSmoothing = f.smoothing },
		}
		for name, apply := range changed {
			if fl.Changed(name) {
				apply()
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("settings: %w", err)
	}
	return cfg, nil
}
