//go:build linux

package proc

import (
	"fmt"
	"os"
	"time"
)

// Options configures the procfs sources.
type Options struct {
	// Root is the procfs mount point. Empty means DefaultRoot.
	Root string

	// Smoothing is the EMA alpha applied to aggregate CPU percent.
	// 0 disables smoothing.
	Smoothing float64

	now func() time.Time
}

func (o Options) fs() (FS, error) {
	fs := NewFS(o.Root)
	if _, err := os.Stat(fs.root); err != nil {
		return FS{}, fmt.Errorf("proc: stat root: %w", err)
	}
	return fs, nil
}

func (o Options) clock() func() time.Time {
	if o.now != nil {
		return o.now
	}
	return time.Now
}

// NewMetricSource returns a host metric source reading from procfs.
func NewMetricSource(opts Options) (*MetricSource, error) {
	fs, err := opts.fs()
	if err != nil {
		return nil, err
	}
	return newMetricSource(fs, opts.Smoothing, opts.clock()), nil
}

// NewProcessSource returns a process source reading from procfs.
func NewProcessSource(opts Options) (*ProcessSource, error) {
	fs, err := opts.fs()
	if err != nil {
		return nil, err
	}
	return newProcessSource(fs, ClockTicks(), PageSize(), opts.clock()), nil
}
