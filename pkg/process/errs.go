package process

import "errors"

var (
	// ErrSourceInit indicates that the process source could not initialize.
	ErrSourceInit = errors.New("process: source init failed")

	// ErrAlreadyStarted indicates that Start was called on a running engine.
	ErrAlreadyStarted = errors.New("process: engine already started")

	// ErrTerminate wraps a failed termination request.
	ErrTerminate = errors.New("process: terminate failed")

	// ErrInvalidPID indicates a pid that can never name a process.
	ErrInvalidPID = errors.New("process: invalid pid")
)
