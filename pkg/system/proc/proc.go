//go:build linux

package proc

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultRoot is where procfs is normally mounted.
const DefaultRoot = "/proc"

// sectorSize is the unit of /proc/diskstats sector counters, independent of
// the device's physical sector size.
const sectorSize = 512

// ClockTicks returns the number of jiffies (clock ticks) per second.
// It first checks the env var CLK_TCK (useful for testing), otherwise
// falls back to 100 (common default).
//
// Note: On real systems, the authoritative way is `sysconf(_SC_CLK_TCK)`,
// but calling that requires cgo.
func ClockTicks() int {
	v, _ := strconv.Atoi(os.Getenv("CLK_TCK"))
	if v > 0 {
		return v
	}
	return 100
}

// PageSize returns the system memory page size in bytes.
// Like ClockTicks, it first checks an env override (PAGE_SIZE).
func PageSize() int {
	if ps := os.Getenv("PAGE_SIZE"); ps != "" {
		if v, _ := strconv.Atoi(ps); v > 0 {
			return v
		}
	}
	return unix.Getpagesize()
}

// FS reads procfs files below a root directory.
type FS struct {
	root string
}

// NewFS returns an FS rooted at root; empty means DefaultRoot.
func NewFS(root string) FS {
	if root == "" {
		root = DefaultRoot
	}
	return FS{root: root}
}

func (fs FS) path(elem ...string) string {
	return filepath.Join(append([]string{fs.root}, elem...)...)
}

// CPUTimes holds cumulative jiffies for one CPU line of /proc/stat.
// Idle includes iowait.
type CPUTimes struct {
	Total uint64
	Idle  uint64
}

// ReadCPUTimes parses the aggregate "cpu" line and every "cpuN" line of
// /proc/stat. Total sums user, nice, system, idle, iowait, irq, softirq and
// steal; guest time is already contained in user and nice.
func (fs FS) ReadCPUTimes() (total CPUTimes, cores []CPUTimes, err error) {
	f, err := os.Open(fs.path("stat"))
	if err != nil {
		return CPUTimes{}, nil, err
	}
	defer f.Close()

	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		cols := strings.Fields(sc.Text())
		if len(cols) == 0 || !strings.HasPrefix(cols[0], "cpu") {
			continue
		}
		if len(cols) < 9 {
			return CPUTimes{}, nil, ErrNoCPU
		}
		vals := make([]uint64, 8)
		for i := range vals {
			vals[i], _ = strconv.ParseUint(cols[i+1], 10, 64)
		}
		t := CPUTimes{Idle: vals[3] + vals[4]}
		for _, v := range vals {
			t.Total += v
		}
		if cols[0] == "cpu" {
			total, found = t, true
			continue
		}
		cores = append(cores, t)
	}
	if err := sc.Err(); err != nil {
		return CPUTimes{}, nil, err
	}
	if !found {
		return CPUTimes{}, nil, ErrNoCPU
	}
	return total, cores, nil
}

// ReadBootTime returns the boot time recorded as "btime" in /proc/stat.
func (fs FS) ReadBootTime() (time.Time, error) {
	var boot time.Time
	err := scanLines(fs.path("stat"), func(line string) bool {
		rest, ok := strings.CutPrefix(line, "btime ")
		if !ok {
			return true
		}
		if sec, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64); err == nil {
			boot = time.Unix(sec, 0)
		}
		return false
	})
	if err != nil {
		return time.Time{}, err
	}
	if boot.IsZero() {
		return time.Time{}, ErrNoBootTime
	}
	return boot, nil
}

// MemInfo holds the /proc/meminfo fields used for usage accounting, in bytes.
type MemInfo struct {
	Total     uint64
	Free      uint64
	Available uint64
	Buffers   uint64
	Cached    uint64
}

// Used returns Total minus the available memory. When the kernel does not
// report MemAvailable it falls back to Free + Buffers + Cached.
func (m MemInfo) Used() uint64 {
	avail := m.Available
	if avail == 0 {
		avail = m.Free + m.Buffers + m.Cached
	}
	if avail > m.Total {
		return 0
	}
	return m.Total - avail
}

// ReadMemInfo parses /proc/meminfo.
func (fs FS) ReadMemInfo() (MemInfo, error) {
	var m MemInfo
	fields := map[string]*uint64{
		"MemTotal:":     &m.Total,
		"MemFree:":      &m.Free,
		"MemAvailable:": &m.Available,
		"Buffers:":      &m.Buffers,
		"Cached:":       &m.Cached,
	}
	err := scanLines(fs.path("meminfo"), func(line string) bool {
		key, rest, ok := strings.Cut(line, " ")
		if !ok {
			return true
		}
		if dst, ok := fields[key]; ok {
			*dst = parseKB(rest)
		}
		return true
	})
	if err != nil {
		return MemInfo{}, err
	}
	if m.Total == 0 {
		return MemInfo{}, ErrNoMemInfo
	}
	return m, nil
}

// ReadDiskStats sums sectors read and written across /proc/diskstats, in
// bytes. Loop and ram devices are skipped.
func (fs FS) ReadDiskStats() (readBytes, writeBytes uint64, err error) {
	err = scanLines(fs.path("diskstats"), func(line string) bool {
		f := strings.Fields(line)
		if len(f) < 10 {
			return true
		}
		dev := f[2]
		if strings.HasPrefix(dev, "loop") || strings.HasPrefix(dev, "ram") {
			return true
		}
		readBytes += fieldU64(f, 5) * sectorSize
		writeBytes += fieldU64(f, 9) * sectorSize
		return true
	})
	return readBytes, writeBytes, err
}

// ReadNetDev sums received and transmitted bytes across /proc/net/dev,
// excluding the loopback interface.
func (fs FS) ReadNetDev() (recvBytes, sentBytes uint64, err error) {
	err = scanLines(fs.path("net", "dev"), func(line string) bool {
		iface, counters, ok := strings.Cut(line, ":")
		if !ok {
			return true // header lines
		}
		if strings.TrimSpace(iface) == "lo" {
			return true
		}
		f := strings.Fields(counters)
		if len(f) < 9 {
			return true
		}
		recvBytes += fieldU64(f, 0)
		sentBytes += fieldU64(f, 8)
		return true
	})
	return recvBytes, sentBytes, err
}

// ListPIDs returns every numeric directory below the root.
func (fs FS) ListPIDs() ([]int, error) {
	entries, err := os.ReadDir(fs.root)
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// ProcStat is the subset of /proc/<pid>/stat the process source needs.
type ProcStat struct {
	PID       int
	Name      string
	PPID      int
	UTime     uint64 // jiffies
	STime     uint64 // jiffies
	StartTime uint64 // jiffies after boot
	RSSPages  uint64
}

// ReadProcStat parses /proc/<pid>/stat.
//
// Caveats:
//   - comm (2nd field) is in parens and may contain spaces or parens; the
//     name runs from the first '(' to the last ')'.
//   - Field indexes below are relative to the fields after ") ".
func (fs FS) ReadProcStat(pid int) (ProcStat, error) {
	b, err := os.ReadFile(fs.path(strconv.Itoa(pid), "stat"))
	if err != nil {
		return ProcStat{}, err
	}
	return parseProcStat(pid, string(b))
}

func parseProcStat(pid int, line string) (ProcStat, error) {
	open := strings.IndexByte(line, '(')
	end := strings.LastIndex(line, ") ")
	if open < 0 || end < open {
		return ProcStat{}, ErrNoStat
	}
	fields := strings.Fields(line[end+2:])
	// rss is the 24th field overall => fields[21]
	if len(fields) < 22 {
		return ProcStat{}, ErrShortStat
	}
	ppid, _ := strconv.Atoi(fields[1])
	return ProcStat{
		PID:       pid,
		Name:      line[open+1 : end],
		PPID:      ppid,
		UTime:     fieldU64(fields, 11),
		STime:     fieldU64(fields, 12),
		StartTime: fieldU64(fields, 19),
		RSSPages:  fieldU64(fields, 21),
	}, nil
}
