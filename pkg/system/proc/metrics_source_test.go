//go:build linux

package proc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/sysmon/pkg/metrics"
)

const (
	diskFixture1 = "   8       0 sda 100 0 2000 0 50 0 4000 0 0 0 0\n"
	diskFixture2 = "   8       0 sda 200 0 4000 0 90 0 8000 0 0 0 0\n"
	netFixture1  = "  eth0: 1000 10 0 0 0 0 0 0 2000 20 0 0 0 0 0 0\n"
	netFixture2  = "  eth0: 3000 10 0 0 0 0 0 0 2500 20 0 0 0 0 0 0\n"
	memFixture   = "MemTotal: 16384 kB\nMemAvailable: 4096 kB\n"
)

func newFixtureSource(t *testing.T, alpha float64) (*MetricSource, string, *fakeClock) {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"stat":      statFixture,
		"meminfo":   memFixture,
		"diskstats": diskFixture1,
		"net/dev":   netFixture1,
	})
	clk := newClock()
	src := newMetricSource(NewFS(root), alpha, clk.now)
	require.NoError(t, src.Init())
	return src, root, clk
}

func TestMetricSource_CPU(t *testing.T) {
	src, root, _ := newFixtureSource(t, 0)

	writeFiles(t, root, map[string]string{"stat": `cpu  300 0 200 1200 300 0 0 0 0 0
cpu0 150 0 100 600 150 0 0 0 0 0
cpu1 50 0 50 750 150 0 0 0 0 0
`})
	var s metrics.Snapshot
	require.NoError(t, src.CollectCPU(&s))
	assert.InDelta(t, 30.0, s.CPUPercent, 1e-9)
	require.Len(t, s.PerCore, 2)
	assert.InDelta(t, 30.0, s.PerCore[0], 1e-9)
	assert.InDelta(t, 0.0, s.PerCore[1], 1e-9)
}

func TestMetricSource_CoreCountChangeResetsBaseline(t *testing.T) {
	src, root, _ := newFixtureSource(t, 0)

	writeFiles(t, root, map[string]string{"stat": `cpu  300 0 200 1200 300 0 0 0 0 0
cpu0 150 0 100 600 150 0 0 0 0 0
cpu1 150 0 100 600 150 0 0 0 0 0
cpu2 150 0 100 600 150 0 0 0 0 0
`})
	var s metrics.Snapshot
	require.NoError(t, src.CollectCPU(&s))
	assert.Equal(t, []float64{0, 0, 0}, s.PerCore)
	assert.InDelta(t, 30.0, s.CPUPercent, 1e-9)
}

func TestMetricSource_Smoothing(t *testing.T) {
	src, root, _ := newFixtureSource(t, 0.5)

	// 30% busy
	writeFiles(t, root, map[string]string{"stat": "cpu  300 0 200 1200 300 0 0 0 0 0\n"})
	var s metrics.Snapshot
	require.NoError(t, src.CollectCPU(&s))
	assert.InDelta(t, 30.0, s.CPUPercent, 1e-9)

	// 90% busy over the next 1000 jiffies
	writeFiles(t, root, map[string]string{"stat": "cpu  1000 0 400 1300 300 0 0 0 0 0\n"})
	require.NoError(t, src.CollectCPU(&s))
	assert.InDelta(t, 60.0, s.CPUPercent, 1e-9)
}

func TestMetricSource_Memory(t *testing.T) {
	src, _, _ := newFixtureSource(t, 0)
	var s metrics.Snapshot
	require.NoError(t, src.CollectMemory(&s))
	assert.Equal(t, uint64(16384*1024), s.MemoryTotal)
	assert.Equal(t, uint64(12288*1024), s.MemoryUsed)
	assert.InDelta(t, 75.0, s.MemoryPercent, 1e-9)
}

func TestMetricSource_Rates(t *testing.T) {
	src, root, clk := newFixtureSource(t, 0)

	clk.advance(2 * time.Second)
	writeFiles(t, root, map[string]string{"diskstats": diskFixture2, "net/dev": netFixture2})

	var s metrics.Snapshot
	require.NoError(t, src.CollectDisk(&s))
	require.NoError(t, src.CollectNetwork(&s))
	assert.Equal(t, uint64(2000*512/2), s.DiskReadBps)
	assert.Equal(t, uint64(4000*512/2), s.DiskWriteBps)
	assert.Equal(t, uint64(1000), s.NetRecvBps)
	assert.Equal(t, uint64(250), s.NetSendBps)

	// counters unchanged: zero is a real reading
	clk.advance(time.Second)
	require.NoError(t, src.CollectDisk(&s))
	assert.Zero(t, s.DiskReadBps)
	assert.Zero(t, s.DiskWriteBps)
}

func TestMetricSource_Errors(t *testing.T) {
	t.Run("init_without_stat", func(t *testing.T) {
		src := newMetricSource(NewFS(t.TempDir()), 0, newClock().now)
		require.Error(t, src.Init())
	})
	t.Run("init_tolerates_missing_disk_and_net", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"stat": statFixture})
		clk := newClock()
		src := newMetricSource(NewFS(root), 0, clk.now)
		require.NoError(t, src.Init())

		var s metrics.Snapshot
		require.Error(t, src.CollectDisk(&s))
		require.Error(t, src.CollectMemory(&s))

		// first successful read is the baseline
		writeFiles(t, root, map[string]string{"diskstats": diskFixture1})
		require.NoError(t, src.CollectDisk(&s))
		assert.Zero(t, s.DiskReadBps)

		clk.advance(time.Second)
		writeFiles(t, root, map[string]string{"diskstats": diskFixture2})
		require.NoError(t, src.CollectDisk(&s))
		assert.Equal(t, uint64(2000*512), s.DiskReadBps)
	})
	t.Run("constructor_rejects_missing_root", func(t *testing.T) {
		_, err := NewMetricSource(Options{Root: "/definitely/not/here"})
		require.Error(t, err)
	})
}

func TestMetricSource_LiveHost(t *testing.T) {
	src, err := NewMetricSource(Options{})
	require.NoError(t, err)
	require.NoError(t, src.Init())
	defer src.Shutdown()

	time.Sleep(20 * time.Millisecond)
	var s metrics.Snapshot
	require.NoError(t, src.CollectCPU(&s))
	require.NoError(t, src.CollectMemory(&s))
	assert.GreaterOrEqual(t, s.CPUPercent, 0.0)
	assert.LessOrEqual(t, s.CPUPercent, 100.0)
	assert.NotEmpty(t, s.PerCore)
	assert.Greater(t, s.MemoryTotal, uint64(0))
}
