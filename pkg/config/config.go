// Package config holds the monitor settings and merges them from defaults,
// a YAML file, environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/process"
)

// Metric and process source backends.
const (
	SourceAuto   = "auto"
	SourceProcfs = "procfs"
	SourcePsutil = "psutil"
)

// Process table orderings.
const (
	SortPID    = "pid"
	SortCPU    = "cpu"
	SortMemory = "mem"
)

var (
	sources = []string{SourceAuto, SourceProcfs, SourcePsutil}
	sorts   = []string{SortPID, SortCPU, SortMemory}
)

// Config is consumed by value when the engines and renderer are built.
type Config struct {
	CPUInterval     time.Duration `yaml:"cpu_interval"`
	MemoryInterval  time.Duration `yaml:"memory_interval"`
	DiskInterval    time.Duration `yaml:"disk_interval"`
	NetworkInterval time.Duration `yaml:"network_interval"`
	ProcessInterval time.Duration `yaml:"process_interval"`

	// Percent in (0,100].
	CPUAlertThreshold    float64 `yaml:"cpu_alert_threshold"`
	MemoryAlertThreshold float64 `yaml:"memory_alert_threshold"`

	// Frames per second.
	RefreshRate int `yaml:"refresh_rate"`

	ShowPerCore       bool   `yaml:"show_per_core"`
	UseColors         bool   `yaml:"use_colors"`
	ExpandTree        bool   `yaml:"expand_tree"`
	MaxProcessDisplay int    `yaml:"max_process_display"` // 0 = unlimited
	SortBy            string `yaml:"sort_by"`

	Source string `yaml:"source"`
	// EMA alpha for overall CPU percent; 0 disables.
	CPUSmoothing float64 `yaml:"cpu_smoothing"`
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		CPUInterval:          metrics.DefaultCPUInterval,
		MemoryInterval:       metrics.DefaultMemoryInterval,
		DiskInterval:         metrics.DefaultDiskInterval,
		NetworkInterval:      metrics.DefaultNetworkInterval,
		ProcessInterval:      process.DefaultInterval,
		CPUAlertThreshold:    90,
		MemoryAlertThreshold: 90,
		RefreshRate:          30,
		ShowPerCore:          true,
		UseColors:            true,
		ExpandTree:           false,
		MaxProcessDisplay:    1000,
		SortBy:               SortPID,
		Source:               SourceAuto,
	}
}

// Validate checks every field and returns all failures joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	checkDur := func(name string, d, lo, hi time.Duration) {
		if d < lo || d > hi {
			bad("%s %s not in [%s, %s]", name, d, lo, hi)
		}
	}
	checkDur("cpu_interval", c.CPUInterval, 100*time.Millisecond, 10*time.Second)
	checkDur("memory_interval", c.MemoryInterval, time.Second, time.Hour)
	checkDur("disk_interval", c.DiskInterval, 100*time.Millisecond, time.Hour)
	checkDur("network_interval", c.NetworkInterval, 100*time.Millisecond, time.Hour)
	checkDur("process_interval", c.ProcessInterval, 100*time.Millisecond, time.Hour)

	if c.RefreshRate < 1 || c.RefreshRate > 120 {
		bad("refresh_rate %d not in [1, 120]", c.RefreshRate)
	}
	if !(c.CPUAlertThreshold > 0 && c.CPUAlertThreshold <= 100) {
		bad("cpu_alert_threshold %g not in (0, 100]", c.CPUAlertThreshold)
	}
	if !(c.MemoryAlertThreshold > 0 && c.MemoryAlertThreshold <= 100) {
		bad("memory_alert_threshold %g not in (0, 100]", c.MemoryAlertThreshold)
	}
	if c.MaxProcessDisplay < 0 {
		bad("max_process_display %d is negative", c.MaxProcessDisplay)
	}
	if !(c.CPUSmoothing >= 0 && c.CPUSmoothing <= 1) {
		bad("cpu_smoothing %g not in [0, 1]", c.CPUSmoothing)
	}
	if !slices.Contains(sources, c.Source) {
		bad("source %q not one of %v", c.Source, sources)
	}
	if !slices.Contains(sorts, c.SortBy) {
		bad("sort_by %q not one of %v", c.SortBy, sorts)
	}
	return errors.Join(errs...)
}

// Intervals returns the per-category sampling cadence.
func (c Config) Intervals() metrics.Intervals {
	return metrics.Intervals{
		CPU:     c.CPUInterval,
		Memory:  c.MemoryInterval,
		Disk:    c.DiskInterval,
		Network: c.NetworkInterval,
	}
}

// FrameInterval is the time between two rendered frames.
func (c Config) FrameInterval() time.Duration {
	if c.RefreshRate <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(c.RefreshRate)
}
