//go:build linux

package proc

import (
	"fmt"
	"time"

	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/system/util"
)

// MetricSource implements metrics.Source on top of procfs.
//
// CPU percent is derived from /proc/stat jiffy deltas between calls, disk and
// network rates from counter deltas over wall time. Calls are serialized by
// the sampler, so MetricSource keeps no lock of its own.
type MetricSource struct {
	fs  FS
	ema *util.EMA
	now func() time.Time

	prevCPU   CPUTimes
	prevCores []CPUTimes
	disk      util.CounterPair
	net       util.CounterPair
}

var _ metrics.Source = (*MetricSource)(nil)

func newMetricSource(fs FS, alpha float64, now func() time.Time) *MetricSource {
	s := &MetricSource{fs: fs, now: now}
	if alpha > 0 {
		s.ema = util.NewEMA(alpha)
	}
	return s
}

// Init primes the counter baselines. Only an unreadable /proc/stat is fatal;
// disk and network start from their first successful read.
func (s *MetricSource) Init() error {
	total, cores, err := s.fs.ReadCPUTimes()
	if err != nil {
		return fmt.Errorf("read cpu: %w", err)
	}
	s.prevCPU, s.prevCores = total, cores

	now := s.now()
	if r, w, err := s.fs.ReadDiskStats(); err == nil {
		s.disk.Rate(r, w, now)
	}
	if rx, tx, err := s.fs.ReadNetDev(); err == nil {
		s.net.Rate(rx, tx, now)
	}
	return nil
}

func (s *MetricSource) Shutdown() error { return nil }

func (s *MetricSource) CollectCPU(dst *metrics.Snapshot) error {
	total, cores, err := s.fs.ReadCPUTimes()
	if err != nil {
		return fmt.Errorf("read cpu: %w", err)
	}

	pct := util.BusyPercent(
		util.DeltaU64(total.Total, s.prevCPU.Total),
		util.DeltaU64(total.Idle, s.prevCPU.Idle),
	)
	if s.ema != nil {
		pct = s.ema.Next(pct)
	}

	// hotplug: a changed core count restarts the per-core baseline
	prev := s.prevCores
	if len(prev) != len(cores) {
		prev = nil
	}
	per := make([]float64, len(cores))
	for i := range prev {
		per[i] = util.BusyPercent(
			util.DeltaU64(cores[i].Total, prev[i].Total),
			util.DeltaU64(cores[i].Idle, prev[i].Idle),
		)
	}

	s.prevCPU, s.prevCores = total, cores
	dst.CPUPercent = pct
	dst.PerCore = per
	return nil
}

func (s *MetricSource) CollectMemory(dst *metrics.Snapshot) error {
	m, err := s.fs.ReadMemInfo()
	if err != nil {
		return fmt.Errorf("read meminfo: %w", err)
	}
	used := m.Used()
	dst.MemoryTotal = m.Total
	dst.MemoryUsed = used
	dst.MemoryPercent = util.ClampPercent(100 * util.SafeDiv(float64(used), float64(m.Total)))
	return nil
}

func (s *MetricSource) CollectDisk(dst *metrics.Snapshot) error {
	r, w, err := s.fs.ReadDiskStats()
	if err != nil {
		return fmt.Errorf("read diskstats: %w", err)
	}
	dst.DiskReadBps, dst.DiskWriteBps = s.disk.Rate(r, w, s.now())
	return nil
}

func (s *MetricSource) CollectNetwork(dst *metrics.Snapshot) error {
	rx, tx, err := s.fs.ReadNetDev()
	if err != nil {
		return fmt.Errorf("read net/dev: %w", err)
	}
	dst.NetRecvBps, dst.NetSendBps = s.net.Rate(rx, tx, s.now())
	return nil
}
