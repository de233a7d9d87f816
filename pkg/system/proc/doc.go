// Package proc reads host and process counters from a Linux procfs mount and
// exposes them as a metrics.Source and a process.Source.
//
// # Readers
//
// FS wraps a procfs root (normally /proc; tests point it at a temp dir) and
// offers one reader per file:
//
//	ReadCPUTimes   /proc/stat        aggregate and per-core jiffies
//	ReadBootTime   /proc/stat        btime
//	ReadMemInfo    /proc/meminfo     MemTotal, MemAvailable and fallbacks
//	ReadDiskStats  /proc/diskstats   sectors read/written (loop, ram skipped)
//	ReadNetDev     /proc/net/dev     bytes received/sent (lo skipped)
//	ListPIDs       /proc             numeric directories
//	ReadProcStat   /proc/<pid>/stat  name, ppid, utime, stime, starttime, rss
//
// # Metric source
//
// MetricSource turns counters into rates. CPU percent is
//
//	100 * (Δtotal - Δidle) / Δtotal
//
// where idle includes iowait. Disk and network are counter deltas divided
// by the wall time between two reads of the same file. The first read of
// any counter yields zero. An optional EMA (Options.Smoothing) damps the
// aggregate CPU percent.
//
// # Process source
//
// ProcessSource lists every /proc/<pid>/stat. Process CPU percent is
// jiffies consumed since the previous enumeration over wall time, keyed by
// (pid, starttime) so a recycled PID starts from zero. CreateTime is boot
// time plus starttime / CLK_TCK. Processes that exit mid-scan are skipped.
//
// On other platforms the constructors return ErrUnsupported; use the
// gopsutil backed sources in pkg/system/psutil instead.
package proc
