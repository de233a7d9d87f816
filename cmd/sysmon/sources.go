package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/ja7ad/sysmon/pkg/config"
	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/process"
	"github.com/ja7ad/sysmon/pkg/render"
	"github.com/ja7ad/sysmon/pkg/system/cgroup"
	"github.com/ja7ad/sysmon/pkg/system/proc"
	"github.com/ja7ad/sysmon/pkg/system/psutil"
)

type sources struct {
	name    string
	metrics metrics.Source
	process process.Source
}

// openSources picks the backend named by cfg.Source. "auto" means procfs on
// Linux and gopsutil elsewhere.
func openSources(cfg config.Config) (sources, error) {
	name := cfg.Source
	if name == config.SourceAuto {
		name = config.SourcePsutil
		if runtime.GOOS == "linux" {
			name = config.SourceProcfs
		}
	}

	switch name {
	case config.SourceProcfs:
		opts := proc.Options{Smoothing: cfg.CPUSmoothing}
		ms, err := proc.NewMetricSource(opts)
		if err != nil {
			return sources{}, fmt.Errorf("procfs metrics: %w", err)
		}
		ps, err := proc.NewProcessSource(opts)
		if err != nil {
			return sources{}, fmt.Errorf("procfs processes: %w", err)
		}
		return sources{name: name, metrics: ms, process: ps}, nil
	case config.SourcePsutil:
		return sources{
			name:    name,
			metrics: psutil.NewMetricSource(cfg.CPUSmoothing),
			process: psutil.NewProcessSource(),
		}, nil
	default:
		return sources{}, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// hostHeader collects the static header fields; failures are logged and
// leave the field blank.
func hostHeader(source string) render.Host {
	h := render.Host{Source: source}

	info, err := psutil.Host()
	if err != nil {
		slog.Debug("host info incomplete", "err", err)
	}
	h.Hostname = info.Hostname
	h.Platform = info.Platform
	h.Kernel = info.Kernel
	h.CPUs = info.CPUs
	h.MemoryTotal = info.MemoryTotal

	if ver, _, err := cgroup.Detect(); err != nil {
		slog.Debug("cgroup detect", "err", err)
	} else if ver != cgroup.Unsupported {
		h.Cgroup = ver.String()
	}
	return h
}

func order(sortBy string) func(a, b *process.Node) int {
	switch sortBy {
	case config.SortCPU:
		return process.ByCPU
	case config.SortMemory:
		return process.ByMemory
	default:
		return process.ByPID
	}
}

func renderOptions(cfg config.Config) render.Options {
	return render.Options{
		Colors:       cfg.UseColors,
		ShowPerCore:  cfg.ShowPerCore,
		CPUAlert:     cfg.CPUAlertThreshold,
		MemoryAlert:  cfg.MemoryAlertThreshold,
		MaxProcesses: cfg.MaxProcessDisplay,
		Expand:       cfg.ExpandTree,
		Order:        order(cfg.SortBy),
	}
}
