package session

import (
	"time"

	"github.com/ja7ad/sysmon/pkg/types"
)

// Summary is the roll-up of every distinct snapshot applied to an Accumulator.
// Percentages are in [0,100]; byte totals are rates integrated over the time
// between consecutive snapshots.
type Summary struct {
	Samples  int
	Duration time.Duration

	AvgCPU  float64
	PeakCPU float64

	AvgMemory  float64
	PeakMemory float64

	DiskRead  types.Bytes
	DiskWrite types.Bytes
	NetRecv   types.Bytes
	NetSent   types.Bytes
}
