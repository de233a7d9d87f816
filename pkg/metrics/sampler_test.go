package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu sync.Mutex

	initErr error
	fail    map[Category]error
	panics  map[Category]bool
	calls   map[Category]int

	cpu      float64
	cores    []float64
	memTotal uint64
	memUsed  uint64
	disk     uint64
	net      uint64

	shutdowns int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		fail:     map[Category]error{},
		panics:   map[Category]bool{},
		calls:    map[Category]int{},
		cpu:      42,
		cores:    []float64{40, 44},
		memTotal: 1000,
		memUsed:  250,
		disk:     4096,
		net:      2048,
	}
}

func (f *fakeSource) Init() error { return f.initErr }

func (f *fakeSource) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
	return nil
}

func (f *fakeSource) enter(c Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[c]++
	if f.panics[c] {
		panic("boom")
	}
	return f.fail[c]
}

func (f *fakeSource) CollectCPU(s *Snapshot) error {
	if err := f.enter(CPU); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.CPUPercent = f.cpu
	s.PerCore = append([]float64(nil), f.cores...)
	return nil
}

func (f *fakeSource) CollectMemory(s *Snapshot) error {
	if err := f.enter(Memory); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.MemoryTotal = f.memTotal
	s.MemoryUsed = f.memUsed
	s.MemoryPercent = 100 * float64(f.memUsed) / float64(f.memTotal)
	return nil
}

func (f *fakeSource) CollectDisk(s *Snapshot) error {
	if err := f.enter(Disk); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.DiskReadBps, s.DiskWriteBps = f.disk, f.disk/2
	return nil
}

func (f *fakeSource) CollectNetwork(s *Snapshot) error {
	if err := f.enter(Network); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.NetRecvBps, s.NetSendBps = f.net, f.net/2
	return nil
}

func (f *fakeSource) count(c Category) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[c]
}

func (f *fakeSource) set(fn func(f *fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSampler(src Source, iv Intervals, clock *time.Time) *Sampler {
	s := NewSampler(src, Config{Intervals: iv, Logger: quietLogger()})
	s.now = func() time.Time { return *clock }
	return s
}

func TestSampler_ResampleCountFollowsCadence(t *testing.T) {
	src := newFakeSource()
	start := time.Unix(1_700_000_000, 0)
	clock := start
	iv := Intervals{CPU: time.Second, Memory: 5 * time.Second, Disk: 700 * time.Millisecond, Network: 3 * time.Second}
	s := newTestSampler(src, iv, &clock)

	const total = 10*time.Second + 50*time.Millisecond

	// first step fills every category; count cadence resamples after it
	next := s.step(clock)
	base := map[Category]int{}
	for _, c := range Categories {
		base[c] = src.count(c)
		require.Equal(t, 1, base[c], "initial fill for %s", c)
	}

	for next.Sub(start) <= total {
		clock = next
		next = s.step(clock)
	}

	for _, c := range Categories {
		want := int(total / iv.For(c))
		assert.Equal(t, want, src.count(c)-base[c], "category %s", c)
	}
}

func TestSampler_ResampleCountWithFixedTicks(t *testing.T) {
	src := newFakeSource()
	start := time.Unix(1_700_000_000, 0)
	clock := start
	iv := Intervals{CPU: time.Second, Memory: 2 * time.Second, Disk: 250 * time.Millisecond, Network: 400 * time.Millisecond}
	s := newTestSampler(src, iv, &clock)

	s.step(clock)
	const total = 6 * time.Second
	for elapsed := 100 * time.Millisecond; elapsed <= total; elapsed += 100 * time.Millisecond {
		clock = start.Add(elapsed)
		s.step(clock)
	}

	for _, c := range Categories {
		want := int(total / iv.For(c))
		got := src.count(c) - 1
		assert.InDelta(t, want, got, 1, "category %s", c)
	}
}

func TestSampler_UntouchedCategoriesAreIdentical(t *testing.T) {
	src := newFakeSource()
	clock := time.Unix(1_700_000_000, 0)
	iv := Intervals{CPU: time.Second, Memory: time.Hour, Disk: time.Hour, Network: time.Hour}
	s := newTestSampler(src, iv, &clock)

	s.step(clock)
	before := s.Snapshot()

	src.set(func(f *fakeSource) {
		f.cpu = 77
		f.memUsed = 900
		f.disk = 1
		f.net = 1
	})
	clock = clock.Add(time.Second)
	s.step(clock)
	after := s.Snapshot()

	assert.Equal(t, 77.0, after.CPUPercent)
	assert.Equal(t, before.MemoryTotal, after.MemoryTotal)
	assert.Equal(t, before.MemoryUsed, after.MemoryUsed)
	assert.Equal(t, before.MemoryPercent, after.MemoryPercent)
	assert.Equal(t, before.DiskReadBps, after.DiskReadBps)
	assert.Equal(t, before.DiskWriteBps, after.DiskWriteBps)
	assert.Equal(t, before.NetRecvBps, after.NetRecvBps)
	assert.Equal(t, before.NetSendBps, after.NetSendBps)
	assert.Equal(t, clock, after.Timestamp)
}

func TestSampler_ZeroReadingIsMerged(t *testing.T) {
	src := newFakeSource()
	clock := time.Unix(1_700_000_000, 0)
	s := newTestSampler(src, Intervals{CPU: time.Second, Memory: time.Second, Disk: time.Second, Network: time.Second}, &clock)

	s.step(clock)
	require.Equal(t, 42.0, s.Snapshot().CPUPercent)

	src.set(func(f *fakeSource) {
		f.cpu = 0
		f.cores = []float64{0, 0}
		f.disk = 0
	})
	clock = clock.Add(time.Second)
	s.step(clock)

	snap := s.Snapshot()
	assert.Zero(t, snap.CPUPercent, "a sampled zero must replace the previous value")
	assert.Equal(t, []float64{0, 0}, snap.PerCore)
	assert.Zero(t, snap.DiskReadBps)
}

func TestSampler_FailedCategoryKeepsPrevious(t *testing.T) {
	src := newFakeSource()
	clock := time.Unix(1_700_000_000, 0)
	s := newTestSampler(src, Intervals{CPU: time.Second, Memory: time.Second, Disk: time.Second, Network: time.Second}, &clock)

	s.step(clock)
	src.set(func(f *fakeSource) {
		f.fail[Network] = errors.New("read /proc/net/dev: permission denied")
		f.panics[Disk] = true
		f.net = 1
		f.cpu = 10
	})
	clock = clock.Add(time.Second)
	assert.NotPanics(t, func() { s.step(clock) })

	snap := s.Snapshot()
	assert.Equal(t, 10.0, snap.CPUPercent)
	assert.Equal(t, uint64(2048), snap.NetRecvBps)
	assert.Equal(t, uint64(4096), snap.DiskReadBps)

	// failed categories retry at their next cadence, not immediately
	netCalls := src.count(Network)
	s.step(clock.Add(100 * time.Millisecond))
	assert.Equal(t, netCalls, src.count(Network))
}

func TestSampler_PerCoreLengthIsStable(t *testing.T) {
	src := newFakeSource()
	clock := time.Unix(1_700_000_000, 0)
	s := newTestSampler(src, Intervals{CPU: time.Second}, &clock)

	s.step(clock)
	require.Len(t, s.Snapshot().PerCore, 2)

	src.set(func(f *fakeSource) { f.cores = []float64{1, 2, 3, 4} })
	clock = clock.Add(time.Second)
	s.step(clock)
	assert.Equal(t, []float64{1, 2}, s.Snapshot().PerCore)

	src.set(func(f *fakeSource) { f.cores = []float64{9} })
	clock = clock.Add(time.Second)
	s.step(clock)
	assert.Equal(t, []float64{9, 0}, s.Snapshot().PerCore)
}

func TestSampler_SnapshotIsACopy(t *testing.T) {
	src := newFakeSource()
	clock := time.Unix(1_700_000_000, 0)
	s := newTestSampler(src, Intervals{}, &clock)
	s.step(clock)

	snap := s.Snapshot()
	snap.PerCore[0] = 99
	assert.Equal(t, 40.0, s.Snapshot().PerCore[0])
}

func TestSampler_RefreshReplacesAndKeepsFailures(t *testing.T) {
	src := newFakeSource()
	clock := time.Unix(1_700_000_000, 0)
	s := newTestSampler(src, Intervals{}, &clock)
	s.step(clock)

	src.set(func(f *fakeSource) {
		f.cpu = 5
		f.cores = []float64{1, 2, 3}
		f.memUsed = 500
		f.fail[Disk] = errors.New("no diskstats")
	})
	clock = clock.Add(10 * time.Millisecond)
	s.Refresh()

	snap := s.Snapshot()
	assert.Equal(t, 5.0, snap.CPUPercent)
	assert.Equal(t, []float64{1, 2, 3}, snap.PerCore, "refresh re-establishes the core count")
	assert.Equal(t, uint64(500), snap.MemoryUsed)
	assert.Equal(t, uint64(4096), snap.DiskReadBps)
	assert.Equal(t, clock, snap.Timestamp)
}

func TestSampler_StartFailsWhenSourceCannotInit(t *testing.T) {
	src := newFakeSource()
	src.initErr = errors.New("no /proc")
	s := NewSampler(src, Config{Logger: quietLogger()})

	err := s.Start(context.Background())
	require.ErrorIs(t, err, ErrSourceInit)
	assert.Zero(t, src.count(CPU))
	require.NoError(t, s.Stop())
	assert.Zero(t, src.shutdowns)
}

func TestSampler_StartStop(t *testing.T) {
	src := newFakeSource()
	iv := Intervals{CPU: 10 * time.Millisecond, Memory: 10 * time.Millisecond, Disk: 10 * time.Millisecond, Network: 10 * time.Millisecond}
	s := NewSampler(src, Config{Intervals: iv, Logger: quietLogger()})

	require.NoError(t, s.Start(context.Background()))
	require.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)

	require.Eventually(t, func() bool { return src.count(CPU) >= 3 }, time.Second, 5*time.Millisecond)
	snap := s.Snapshot()
	assert.Equal(t, 42.0, snap.CPUPercent)
	assert.False(t, snap.Timestamp.IsZero())

	stopped := make(chan struct{})
	go func() {
		assert.NoError(t, s.Stop())
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop did not return")
	}
	assert.Equal(t, 1, src.shutdowns)

	calls := src.count(CPU)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, src.count(CPU), "no sampling after Stop")
	require.NoError(t, s.Stop())
	assert.Equal(t, 1, src.shutdowns)
}

func TestSampler_StopIsImmediateWithLongCadence(t *testing.T) {
	src := newFakeSource()
	iv := Intervals{CPU: time.Hour, Memory: time.Hour, Disk: time.Hour, Network: time.Hour}
	s := NewSampler(src, Config{Intervals: iv, Logger: quietLogger()})
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return src.count(Network) == 1 }, time.Second, 5*time.Millisecond)

	begin := time.Now()
	require.NoError(t, s.Stop())
	assert.Less(t, time.Since(begin), 500*time.Millisecond)
}

func TestSampler_ContextCancelEndsLoop(t *testing.T) {
	src := newFakeSource()
	iv := Intervals{CPU: 5 * time.Millisecond, Memory: 5 * time.Millisecond, Disk: 5 * time.Millisecond, Network: 5 * time.Millisecond}
	s := NewSampler(src, Config{Intervals: iv, Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	require.Eventually(t, func() bool { return src.count(CPU) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	require.NoError(t, s.Stop())
	assert.Equal(t, 1, src.shutdowns)
}

func TestIntervals_Defaults(t *testing.T) {
	iv := Intervals{CPU: 250 * time.Millisecond}.withDefaults()
	assert.Equal(t, 250*time.Millisecond, iv.CPU)
	assert.Equal(t, DefaultMemoryInterval, iv.Memory)
	assert.Equal(t, DefaultDiskInterval, iv.Disk)
	assert.Equal(t, DefaultNetworkInterval, iv.Network)
	assert.Equal(t, "network", Network.String())
	assert.Equal(t, "unknown", Category(9).String())
}
