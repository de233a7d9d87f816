//go:build linux

package proc

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ja7ad/sysmon/pkg/process"
)

// procKey identifies one process incarnation; a reused PID gets a new key.
type procKey struct {
	pid   int
	start uint64
}

// ProcessSource implements process.Source on top of procfs.
//
// CPU percent is top-style: jiffies consumed since the previous Enumerate
// divided by wall time, so a busy multi-threaded process can exceed 100.
type ProcessSource struct {
	fs       FS
	clkTck   int
	pageSize int
	now      func() time.Time

	boot      time.Time
	prevTicks map[procKey]uint64
	prevAt    time.Time
}

var _ process.Source = (*ProcessSource)(nil)

func newProcessSource(fs FS, clkTck, pageSize int, now func() time.Time) *ProcessSource {
	return &ProcessSource{
		fs:        fs,
		clkTck:    clkTck,
		pageSize:  pageSize,
		now:       now,
		prevTicks: make(map[procKey]uint64),
	}
}

func (s *ProcessSource) Init() error {
	boot, err := s.fs.ReadBootTime()
	if err != nil {
		return fmt.Errorf("read boot time: %w", err)
	}
	s.boot = boot
	return nil
}

func (s *ProcessSource) Shutdown() error {
	clear(s.prevTicks)
	return nil
}

// Enumerate reads every /proc/<pid>/stat. Processes that exit mid-scan are
// skipped silently; other per-process failures are joined into the returned
// error alongside the records that were read.
func (s *ProcessSource) Enumerate() ([]process.Record, error) {
	pids, err := s.fs.ListPIDs()
	if err != nil {
		return nil, fmt.Errorf("list pids: %w", err)
	}

	now := s.now()
	dt := 0.0
	if !s.prevAt.IsZero() {
		dt = now.Sub(s.prevAt).Seconds()
	}

	var (
		errs  []error
		out   = make([]process.Record, 0, len(pids))
		ticks = make(map[procKey]uint64, len(pids))
		clk   = float64(s.clkTck)
	)
	for _, pid := range pids {
		st, err := s.fs.ReadProcStat(pid)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("pid %d: %w", pid, err))
			}
			continue
		}

		key := procKey{pid: st.PID, start: st.StartTime}
		used := st.UTime + st.STime
		ticks[key] = used

		var cpu float64
		if prev, ok := s.prevTicks[key]; ok && dt > 0 {
			cpu = 100 * float64(used-min(prev, used)) / clk / dt
		}

		out = append(out, process.Record{
			PID:         st.PID,
			PPID:        st.PPID,
			Name:        st.Name,
			CPUPercent:  cpu,
			MemoryBytes: st.RSSPages * uint64(s.pageSize),
			CreateTime:  s.boot.Add(time.Duration(float64(st.StartTime) / clk * float64(time.Second))),
		})
	}

	s.prevTicks, s.prevAt = ticks, now
	return out, errors.Join(errs...)
}

// Terminate sends SIGTERM to pid.
func (s *ProcessSource) Terminate(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}
