package metrics

import "time"

// Category is one independently sampled group of metrics.
type Category uint8

const (
	CPU Category = iota
	Memory
	Disk
	Network

	numCategories
)

// Categories lists every category in sampling order.
var Categories = [numCategories]Category{CPU, Memory, Disk, Network}

func (c Category) String() string {
	switch c {
	case CPU:
		return "cpu"
	case Memory:
		return "memory"
	case Disk:
		return "disk"
	case Network:
		return "network"
	default:
		return "unknown"
	}
}

// Default cadences.
const (
	DefaultCPUInterval     = time.Second
	DefaultMemoryInterval  = 5 * time.Second
	DefaultDiskInterval    = time.Second
	DefaultNetworkInterval = time.Second
)

// Intervals holds the sampling cadence of each category.
type Intervals struct {
	CPU     time.Duration
	Memory  time.Duration
	Disk    time.Duration
	Network time.Duration
}

// DefaultIntervals returns the stock cadences.
func DefaultIntervals() Intervals {
	return Intervals{
		CPU:     DefaultCPUInterval,
		Memory:  DefaultMemoryInterval,
		Disk:    DefaultDiskInterval,
		Network: DefaultNetworkInterval,
	}
}

// For returns the cadence configured for c.
func (iv Intervals) For(c Category) time.Duration {
	switch c {
	case CPU:
		return iv.CPU
	case Memory:
		return iv.Memory
	case Disk:
		return iv.Disk
	case Network:
		return iv.Network
	default:
		return 0
	}
}

// withDefaults replaces non-positive cadences with the stock ones.
func (iv Intervals) withDefaults() Intervals {
	def := DefaultIntervals()
	if iv.CPU <= 0 {
		iv.CPU = def.CPU
	}
	if iv.Memory <= 0 {
		iv.Memory = def.Memory
	}
	if iv.Disk <= 0 {
		iv.Disk = def.Disk
	}
	if iv.Network <= 0 {
		iv.Network = def.Network
	}
	return iv
}

// categorySet is a bitmask of categories; it marks which categories were
// actually sampled during one pass, independent of the values read.
type categorySet uint8

func (s categorySet) has(c Category) bool { return s&(1<<c) != 0 }
func (s *categorySet) add(c Category)     { *s |= 1 << c }
func (s categorySet) empty() bool         { return s == 0 }

const allCategories categorySet = 1<<numCategories - 1
