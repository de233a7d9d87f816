// Package session keeps running statistics over the snapshots a monitor
// displays, for the summary printed on exit.
package session

import (
	"time"

	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/types"
)

// Accumulator keeps running averages, peaks and transfer totals.
// It is not safe for concurrent use.
type Accumulator struct {
	first, last time.Time
	count       int

	sumCPU, sumMem   float64
	peakCPU, peakMem float64

	diskRead, diskWrite float64
	netRecv, netSent    float64
}

// New creates an empty accumulator.
func New() *Accumulator { return &Accumulator{} }

// Apply folds snap into the running statistics and reports whether it was
// counted. Snapshots whose timestamp is zero or not after the previous one
// are ignored, so a render loop may call Apply on every frame.
//
// Transfer totals are accumulated as
//
//	bytes += rate * (snap.Timestamp - previous.Timestamp)
func (a *Accumulator) Apply(snap metrics.Snapshot) bool {
	ts := snap.Timestamp
	if ts.IsZero() || (a.count > 0 && !ts.After(a.last)) {
		return false
	}

	if a.count == 0 {
		a.first = ts
	} else {
		dt := ts.Sub(a.last).Seconds()
		a.diskRead += float64(snap.DiskReadBps) * dt
		a.diskWrite += float64(snap.DiskWriteBps) * dt
		a.netRecv += float64(snap.NetRecvBps) * dt
		a.netSent += float64(snap.NetSendBps) * dt
	}
	a.last = ts
	a.count++

	a.sumCPU += snap.CPUPercent
	a.sumMem += snap.MemoryPercent
	a.peakCPU = max(a.peakCPU, snap.CPUPercent)
	a.peakMem = max(a.peakMem, snap.MemoryPercent)
	return true
}

// Summary returns the statistics so far. The zero Summary means nothing was
// applied.
func (a *Accumulator) Summary() Summary {
	if a.count == 0 {
		return Summary{}
	}
	n := float64(a.count)
	return Summary{
		Samples:    a.count,
		Duration:   a.last.Sub(a.first),
		AvgCPU:     a.sumCPU / n,
		PeakCPU:    a.peakCPU,
		AvgMemory:  a.sumMem / n,
		PeakMemory: a.peakMem,
		DiskRead:   types.Bytes(a.diskRead),
		DiskWrite:  types.Bytes(a.diskWrite),
		NetRecv:    types.Bytes(a.netRecv),
		NetSent:    types.Bytes(a.netSent),
	}
}
