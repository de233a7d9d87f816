package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Config controls a Sampler. It is consumed by value at construction.
type Config struct {
	// Intervals sets the cadence per category; non-positive entries use defaults.
	Intervals Intervals
	// Logger receives per-category sampling failures. Nil uses slog.Default().
	Logger *slog.Logger
}

// Sampler runs one background loop that samples the four metric categories
// at independent cadences and publishes a merged Snapshot.
type Sampler struct {
	src    Source
	logger *slog.Logger
	now    func() time.Time

	// collectMu serializes access to src between the loop and Refresh.
	collectMu sync.Mutex
	sched     *schedule

	mu   sync.RWMutex
	snap Snapshot

	lifeMu  sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewSampler returns a stopped sampler reading from src.
func NewSampler(src Source, cfg Config) *Sampler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		src:    src,
		logger: logger.With("component", "metrics"),
		now:    time.Now,
		sched:  newSchedule(cfg.Intervals),
	}
}

// Start initializes the source and spawns the sampling loop. The loop ends
// when ctx is cancelled or Stop is called.
func (s *Sampler) Start(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if s.running {
		return ErrAlreadyStarted
	}
	if err := s.src.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrSourceInit, err)
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true
	go s.run(ctx, s.stop, s.done)
	return nil
}

// Stop ends the sampling loop, waits for it to exit and shuts the source down.
// Calling Stop on a stopped sampler is a no-op.
func (s *Sampler) Stop() error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if !s.running {
		return nil
	}
	close(s.stop)
	<-s.done
	s.running = false
	return s.src.Shutdown()
}

// Snapshot returns an independent copy of the published metrics.
func (s *Sampler) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Refresh samples every category on the caller's goroutine and replaces the
// published snapshot. Categories that fail keep their previous values.
// Cadence timers are not affected.
func (s *Sampler) Refresh() {
	s.collectMu.Lock()
	defer s.collectMu.Unlock()

	var scratch Snapshot
	var sampled categorySet
	for _, c := range Categories {
		if s.collect(c, &scratch) {
			sampled.add(c)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	scratch.merge(&s.snap, allCategories&^sampled)
	scratch.Timestamp = s.now()
	s.snap = scratch
}

func (s *Sampler) run(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		next := s.step(s.now())
		timer.Reset(next.Sub(s.now()))

		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-timer.C:
		}
	}
}

// step samples every category due at now, merges the ones that were actually
// sampled and returns the next deadline.
func (s *Sampler) step(now time.Time) time.Time {
	s.collectMu.Lock()
	defer s.collectMu.Unlock()

	due := s.sched.due(now)
	if due.empty() {
		return s.sched.next(now)
	}

	var scratch Snapshot
	var sampled categorySet
	for _, c := range Categories {
		if !due.has(c) {
			continue
		}
		if s.collect(c, &scratch) {
			sampled.add(c)
		}
		// a failed category waits for its next cadence instead of retrying hot
		s.sched.mark(c, now)
	}

	if !sampled.empty() {
		s.mu.Lock()
		s.snap.merge(&scratch, sampled)
		s.snap.Timestamp = s.now()
		s.mu.Unlock()
	}
	return s.sched.next(now)
}

// collect reads one category into snap and reports whether it succeeded.
// Source errors and panics are logged and confined to the category.
func (s *Sampler) collect(c Category, snap *Snapshot) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("collector panic", "category", c, "panic", r)
			ok = false
		}
	}()

	var err error
	switch c {
	case CPU:
		err = s.src.CollectCPU(snap)
	case Memory:
		err = s.src.CollectMemory(snap)
	case Disk:
		err = s.src.CollectDisk(snap)
	case Network:
		err = s.src.CollectNetwork(snap)
	}
	if err != nil {
		s.logger.Warn("sample error", "category", c, "err", err)
		return false
	}
	return true
}
