package psutil

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	pr "github.com/ja7ad/sysmon/pkg/process"
)

type procKey struct {
	pid     int32
	created int64
}

// ProcessSource lists processes through gopsutil.
//
// gopsutil computes Percent(0) against the previous call on the same
// *process.Process, so handles are cached per (pid, create time) between
// enumerations. A recycled PID gets a new handle and starts from zero.
type ProcessSource struct {
	handles map[procKey]*process.Process
}

var _ pr.Source = (*ProcessSource)(nil)

func NewProcessSource() *ProcessSource {
	return &ProcessSource{handles: make(map[procKey]*process.Process)}
}

func (s *ProcessSource) Init() error {
	if _, err := process.Pids(); err != nil {
		return fmt.Errorf("list pids: %w", err)
	}
	return nil
}

func (s *ProcessSource) Shutdown() error {
	clear(s.handles)
	return nil
}

// Enumerate returns every process gopsutil can read. Processes that exit
// mid-scan are skipped; other failures are joined into the error.
func (s *ProcessSource) Enumerate() ([]pr.Record, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var (
		errs []error
		out  = make([]pr.Record, 0, len(procs))
		next = make(map[procKey]*process.Process, len(procs))
	)
	for _, p := range procs {
		rec, key, err := s.read(p)
		if err != nil {
			if !gone(err) {
				errs = append(errs, fmt.Errorf("pid %d: %w", p.Pid, err))
			}
			continue
		}
		if h, ok := s.handles[key]; ok {
			p = h
		}
		// Percent(0) on a fresh handle records the baseline and returns 0.
		rec.CPUPercent, _ = p.Percent(0)
		next[key] = p
		out = append(out, rec)
	}

	s.handles = next
	return out, errors.Join(errs...)
}

func (s *ProcessSource) read(p *process.Process) (pr.Record, procKey, error) {
	created, err := p.CreateTime()
	if err != nil {
		return pr.Record{}, procKey{}, err
	}
	name, err := p.Name()
	if err != nil {
		return pr.Record{}, procKey{}, err
	}
	// PPID and RSS are best effort; some platforms deny them for foreign users.
	ppid, _ := p.Ppid()
	var rss uint64
	if mi, err := p.MemoryInfo(); err == nil && mi != nil {
		rss = mi.RSS
	}
	return pr.Record{
		PID:         int(p.Pid),
		PPID:        int(ppid),
		Name:        name,
		MemoryBytes: rss,
		CreateTime:  time.UnixMilli(created),
	}, procKey{pid: p.Pid, created: created}, nil
}

// Terminate asks pid to exit (SIGTERM on unix, TerminateProcess on Windows).
func (s *ProcessSource) Terminate(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		if gone(err) {
			return fmt.Errorf("%w: %d", ErrProcessGone, pid)
		}
		return err
	}
	return p.Terminate()
}

func gone(err error) bool {
	return errors.Is(err, process.ErrorProcessNotRunning) || errors.Is(err, fs.ErrNotExist)
}
