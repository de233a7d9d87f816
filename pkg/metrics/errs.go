package metrics

import "errors"

var (
	// ErrSourceInit indicates that the metric source could not initialize;
	// the sampling loop is not started.
	ErrSourceInit = errors.New("metrics: source init failed")

	// ErrAlreadyStarted indicates that Start was called on a running sampler.
	ErrAlreadyStarted = errors.New("metrics: sampler already started")
)
