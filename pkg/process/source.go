package process

// Source enumerates processes. One implementation exists per platform.
type Source interface {
	Init() error
	Shutdown() error

	// Enumerate lists every visible process. It may return a partial list
	// together with an error when some processes could not be read.
	Enumerate() ([]Record, error)

	// Terminate asks the OS to end pid.
	Terminate(pid int) error
}
