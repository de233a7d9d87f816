package psutil

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/system/util"
)

// MetricSource reads host metrics through gopsutil.
//
// cpu.Percent with a zero interval reports usage since its previous call, so
// Init primes it and every CollectCPU measures the window since the last one.
type MetricSource struct {
	ema *util.EMA
	now func() time.Time

	disk util.CounterPair
	net  util.CounterPair
}

var _ metrics.Source = (*MetricSource)(nil)

// NewMetricSource returns a gopsutil backed source. smoothing is the EMA
// alpha for aggregate CPU percent; 0 disables it.
func NewMetricSource(smoothing float64) *MetricSource {
	s := &MetricSource{now: time.Now}
	if smoothing > 0 {
		s.ema = util.NewEMA(smoothing)
	}
	return s
}

func (s *MetricSource) Init() error {
	if _, err := cpu.Percent(0, false); err != nil {
		return fmt.Errorf("cpu percent: %w", err)
	}
	_, _ = cpu.Percent(0, true)

	now := s.now()
	if r, w, err := diskTotals(); err == nil {
		s.disk.Rate(r, w, now)
	}
	if rx, tx, err := netTotals(); err == nil {
		s.net.Rate(rx, tx, now)
	}
	return nil
}

func (s *MetricSource) Shutdown() error { return nil }

func (s *MetricSource) CollectCPU(dst *metrics.Snapshot) error {
	total, err := cpu.Percent(0, false)
	if err != nil {
		return fmt.Errorf("cpu percent: %w", err)
	}
	if len(total) == 0 {
		return ErrEmptyCPU
	}
	per, err := cpu.Percent(0, true)
	if err != nil {
		return fmt.Errorf("cpu percent per core: %w", err)
	}

	pct := util.ClampPercent(total[0])
	if s.ema != nil {
		pct = s.ema.Next(pct)
	}
	dst.CPUPercent = pct
	dst.PerCore = make([]float64, len(per))
	for i, v := range per {
		dst.PerCore[i] = util.ClampPercent(v)
	}
	return nil
}

func (s *MetricSource) CollectMemory(dst *metrics.Snapshot) error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("virtual memory: %w", err)
	}
	dst.MemoryTotal = vm.Total
	dst.MemoryUsed = vm.Used
	dst.MemoryPercent = util.ClampPercent(vm.UsedPercent)
	return nil
}

func (s *MetricSource) CollectDisk(dst *metrics.Snapshot) error {
	r, w, err := diskTotals()
	if err != nil {
		return err
	}
	dst.DiskReadBps, dst.DiskWriteBps = s.disk.Rate(r, w, s.now())
	return nil
}

func (s *MetricSource) CollectNetwork(dst *metrics.Snapshot) error {
	rx, tx, err := netTotals()
	if err != nil {
		return err
	}
	dst.NetRecvBps, dst.NetSendBps = s.net.Rate(rx, tx, s.now())
	return nil
}

func diskTotals() (readBytes, writeBytes uint64, err error) {
	counters, err := disk.IOCounters()
	if err != nil {
		return 0, 0, fmt.Errorf("disk io counters: %w", err)
	}
	for name, c := range counters {
		if strings.HasPrefix(name, "loop") || strings.HasPrefix(name, "ram") {
			continue
		}
		readBytes += c.ReadBytes
		writeBytes += c.WriteBytes
	}
	return readBytes, writeBytes, nil
}

var loopbackNames = []string{"lo", "lo0", "Loopback Pseudo-Interface 1"}

func netTotals() (recvBytes, sentBytes uint64, err error) {
	counters, err := net.IOCounters(true)
	if err != nil {
		return 0, 0, fmt.Errorf("net io counters: %w", err)
	}
	for _, c := range counters {
		if slices.Contains(loopbackNames, c.Name) {
			continue
		}
		recvBytes += c.BytesRecv
		sentBytes += c.BytesSent
	}
	return recvBytes, sentBytes, nil
}
