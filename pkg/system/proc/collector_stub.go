//go:build !linux

package proc

import (
	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/process"
)

// Options mirrors the Linux options so callers compile everywhere.
type Options struct {
	Root      string
	Smoothing float64
}

// MetricSource is a placeholder on non-Linux platforms.
type MetricSource struct{}

// ProcessSource is a placeholder on non-Linux platforms.
type ProcessSource struct{}

// NewMetricSource returns ErrUnsupported because procfs is Linux-only.
func NewMetricSource(Options) (*MetricSource, error) { return nil, ErrUnsupported }

// NewProcessSource returns ErrUnsupported because procfs is Linux-only.
func NewProcessSource(Options) (*ProcessSource, error) { return nil, ErrUnsupported }

func (*MetricSource) Init() error { return ErrUnsupported }
func (*MetricSource) Shutdown() error { return nil }
func (*MetricSource) CollectCPU(*metrics.Snapshot) error { return ErrUnsupported }
func (*MetricSource) CollectMemory(*metrics.Snapshot) error { return ErrUnsupported }
func (*MetricSource) CollectDisk(*metrics.Snapshot) error { return ErrUnsupported }
func (*MetricSource) CollectNetwork(*metrics.Snapshot) error { return ErrUnsupported }

func (*ProcessSource) Init() error { return ErrUnsupported }
func (*ProcessSource) Shutdown() error { return nil }
func (*ProcessSource) Enumerate() ([]process.Record, error) { return nil, ErrUnsupported }
func (*ProcessSource) Terminate(int) error { return ErrUnsupported }
