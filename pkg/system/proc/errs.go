package proc

import "errors"

var (
	// ErrNoStat indicates that /proc/<pid>/stat was empty or malformed.
	ErrNoStat = errors.New("proc: malformed or empty stat")

	// ErrShortStat indicates that /proc/<pid>/stat had fewer fields than expected.
	ErrShortStat = errors.New("proc: short stat")

	// ErrNoCPU indicates that /proc/stat had no aggregate CPU line.
	ErrNoCPU = errors.New("proc: no cpu line")

	// ErrNoBootTime indicates that /proc/stat had no btime line.
	ErrNoBootTime = errors.New("proc: no boot time")

	// ErrNoMemInfo indicates that /proc/meminfo reported no MemTotal.
	ErrNoMemInfo = errors.New("proc: no meminfo")

	// ErrUnsupported is returned by the constructors on non-Linux platforms.
	ErrUnsupported = errors.New("proc: procfs sources require linux")
)
