package psutil

import "errors"

var (
	// ErrEmptyCPU indicates that gopsutil returned no aggregate CPU reading.
	ErrEmptyCPU = errors.New("psutil: empty cpu percent")

	// ErrProcessGone indicates that the target process no longer exists.
	ErrProcessGone = errors.New("psutil: process not running")
)
