package psutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostInfo is the static description of the machine.
type HostInfo struct {
	Hostname    string
	Platform    string
	Kernel      string
	CPUs        int
	MemoryTotal uint64
}

// Host gathers HostInfo. Fields that cannot be read stay empty; the error
// joins every failure.
func Host() (HostInfo, error) {
	var (
		out  HostInfo
		errs []error
	)
	if info, err := host.Info(); err == nil {
		out.Hostname = info.Hostname
		out.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		out.Kernel = info.KernelVersion
	} else {
		errs = append(errs, fmt.Errorf("host info: %w", err))
	}
	if n, err := cpu.Counts(true); err == nil {
		out.CPUs = n
	} else {
		errs = append(errs, fmt.Errorf("cpu counts: %w", err))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		out.MemoryTotal = vm.Total
	} else {
		errs = append(errs, fmt.Errorf("virtual memory: %w", err))
	}
	return out, errors.Join(errs...)
}
