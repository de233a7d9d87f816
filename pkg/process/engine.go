package process

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the enumeration cadence used when none is configured.
const DefaultInterval = 2 * time.Second

// EngineConfig controls an Engine. It is consumed by value at construction.
type EngineConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Engine re-enumerates processes on a fixed cadence and publishes the
// reconciled forest. Every cycle produces a fresh forest; nodes carry no
// identity from one cycle to the next.
type Engine struct {
	src      Source
	interval time.Duration
	logger   *slog.Logger

	mu         sync.RWMutex
	forest     Forest
	generation uint64

	lifeMu  sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewEngine returns a stopped engine reading from src.
func NewEngine(src Source, cfg EngineConfig) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		src:      src,
		interval: cfg.Interval,
		logger:   logger.With("component", "process"),
	}
}

// Start initializes the source and spawns the enumeration loop. The loop
// ends when ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	if e.running {
		return ErrAlreadyStarted
	}
	if err := e.src.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrSourceInit, err)
	}

	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.running = true
	go e.run(ctx, e.stop, e.done)
	return nil
}

// Stop ends the loop, waits for it and shuts the source down. A cycle in
// progress always completes first.
func (e *Engine) Stop() error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	if !e.running {
		return nil
	}
	close(e.stop)
	<-e.done
	e.running = false
	return e.src.Shutdown()
}

// Snapshot returns a deep copy of the current forest. Later cycles never
// modify a returned copy.
func (e *Engine) Snapshot() Forest {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.forest.Clone()
}

// Generation returns how many forests have been published.
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// Terminate asks the source to end pid. It does not wait for or verify the
// exit.
func (e *Engine) Terminate(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	if err := e.src.Terminate(pid); err != nil {
		return fmt.Errorf("%w: pid %d: %w", ErrTerminate, pid, err)
	}
	return nil
}

// Refresh is reserved for an out-of-cycle re-enumeration. It currently does
// nothing; the next cycle runs on the regular cadence.
func (e *Engine) Refresh() {}

func (e *Engine) run(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		e.cycle()

		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// cycle enumerates, reconciles and publishes one forest.
//
// A failed enumeration that returned nothing keeps the previous forest so a
// transient read error does not blank the display. Partial and successful
// results, including a successful empty one, replace it.
func (e *Engine) cycle() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("enumeration panic", "panic", r)
		}
	}()

	records, err := e.src.Enumerate()
	if err != nil {
		if len(records) == 0 {
			e.logger.Warn("enumeration failed, keeping previous forest", "err", err)
			return
		}
		e.logger.Warn("partial enumeration", "records", len(records), "err", err)
	}

	forest := Reconcile(records)

	e.mu.Lock()
	e.forest = forest
	e.generation++
	e.mu.Unlock()
}
