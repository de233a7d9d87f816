package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/sysmon/pkg/metrics"
	"github.com/ja7ad/sysmon/pkg/types"
)

func TestAccumulator_Sequence(t *testing.T) {
	acc := New()
	t0 := time.Unix(1_700_000_000, 0)

	const MB = 1 << 20
	snaps := []metrics.Snapshot{
		{Timestamp: t0, CPUPercent: 10, MemoryPercent: 40, DiskReadBps: 9 * MB},
		{Timestamp: t0.Add(1 * time.Second), CPUPercent: 30, MemoryPercent: 50, DiskReadBps: 1 * MB, NetRecvBps: 2 * MB},
		{Timestamp: t0.Add(2 * time.Second), CPUPercent: 80, MemoryPercent: 45, DiskWriteBps: 4 * MB},
		{Timestamp: t0.Add(4 * time.Second), CPUPercent: 40, MemoryPercent: 45, NetSendBps: 1 * MB},
	}

	t.Logf("# tick,  cpu%%,  mem%%")
	for i, s := range snaps {
		require.True(t, acc.Apply(s), "tick %d", i)
		t.Logf("%6d, %5.1f, %5.1f", i, s.CPUPercent, s.MemoryPercent)
	}

	sum := acc.Summary()
	assert.Equal(t, 4, sum.Samples)
	assert.Equal(t, 4*time.Second, sum.Duration)
	assert.InDelta(t, 40.0, sum.AvgCPU, 1e-9)
	assert.InDelta(t, 80.0, sum.PeakCPU, 1e-9)
	assert.InDelta(t, 45.0, sum.AvgMemory, 1e-9)
	assert.InDelta(t, 50.0, sum.PeakMemory, 1e-9)

	// first snapshot opens the window and moves no bytes
	assert.Equal(t, types.Bytes(1*MB), sum.DiskRead)
	assert.Equal(t, types.Bytes(4*MB), sum.DiskWrite)
	assert.Equal(t, types.Bytes(2*MB), sum.NetRecv)
	assert.Equal(t, types.Bytes(2*MB), sum.NetSent)
}

func TestAccumulator_IgnoresRepeatsAndZero(t *testing.T) {
	acc := New()
	t0 := time.Unix(1_700_000_000, 0)

	assert.False(t, acc.Apply(metrics.Snapshot{CPUPercent: 99}), "zero timestamp")
	assert.True(t, acc.Apply(metrics.Snapshot{Timestamp: t0, CPUPercent: 20}))
	assert.False(t, acc.Apply(metrics.Snapshot{Timestamp: t0, CPUPercent: 99}), "same frame")
	assert.False(t, acc.Apply(metrics.Snapshot{Timestamp: t0.Add(-time.Second), CPUPercent: 99}), "older")

	sum := acc.Summary()
	assert.Equal(t, 1, sum.Samples)
	assert.InDelta(t, 20.0, sum.PeakCPU, 1e-9)
	assert.Zero(t, sum.Duration)
}

func TestAccumulator_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, New().Summary())
}
