package metrics

import (
	"slices"
	"time"
)

// Snapshot aggregates the latest readings for every monitored host resource.
// Percentages lie in [0,100] when the source is well behaved.
type Snapshot struct {
	// CPU
	CPUPercent float64
	PerCore    []float64

	// Memory (bytes)
	MemoryTotal   uint64
	MemoryUsed    uint64
	MemoryPercent float64

	// Disk and network throughput (bytes per second)
	DiskReadBps  uint64
	DiskWriteBps uint64
	NetRecvBps   uint64
	NetSendBps   uint64

	Timestamp time.Time
}

// Clone returns a copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.PerCore = slices.Clone(s.PerCore)
	return out
}

// merge copies the fields of every category in set from src into s.
func (s *Snapshot) merge(src *Snapshot, set categorySet) {
	if set.has(CPU) {
		s.CPUPercent = src.CPUPercent
		s.PerCore = fitCores(src.PerCore, len(s.PerCore))
	}
	if set.has(Memory) {
		s.MemoryTotal = src.MemoryTotal
		s.MemoryUsed = src.MemoryUsed
		s.MemoryPercent = src.MemoryPercent
	}
	if set.has(Disk) {
		s.DiskReadBps = src.DiskReadBps
		s.DiskWriteBps = src.DiskWriteBps
	}
	if set.has(Network) {
		s.NetRecvBps = src.NetRecvBps
		s.NetSendBps = src.NetSendBps
	}
}

// fitCores copies cores, keeping an already established core count stable.
// established == 0 means no count has been published yet.
func fitCores(cores []float64, established int) []float64 {
	if established == 0 {
		return slices.Clone(cores)
	}
	out := make([]float64, established)
	copy(out, cores)
	return out
}
