package metrics

// Source reads raw host metrics. One implementation exists per platform.
//
// Each Collect call writes the fields of its category into the supplied
// snapshot. On a read error the fields are left at their zero value and an
// error is returned; the sampler then keeps the previously published values
// for that category.
type Source interface {
	Init() error
	Shutdown() error

	CollectCPU(*Snapshot) error
	CollectMemory(*Snapshot) error
	CollectDisk(*Snapshot) error
	CollectNetwork(*Snapshot) error
}
