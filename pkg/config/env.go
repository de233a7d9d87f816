package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvCPUInterval     = "SYSMON_CPU_INTERVAL"
	EnvMemoryInterval  = "SYSMON_MEMORY_INTERVAL"
	EnvProcessInterval = "SYSMON_PROCESS_INTERVAL"
	EnvNoColors        = "SYSMON_NO_COLORS"
	EnvSource          = "SYSMON_SOURCE"
)

// ApplyEnv overrides c from the environment via lookup (os.LookupEnv in
// production). Interval values accept a Go duration ("1500ms") or a bare
// integer of milliseconds. SYSMON_NO_COLORS=1 disables colors.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, iv := range []struct {
		key string
		dst *time.Duration
	}{
		{EnvCPUInterval, &c.CPUInterval},
		{EnvMemoryInterval, &c.MemoryInterval},
		{EnvProcessInterval, &c.ProcessInterval},
	} {
		v, ok := lookup(iv.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		d, err := parseInterval(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrParse, iv.key, v, err)
		}
		*iv.dst = d
	}

	if v, ok := lookup(EnvNoColors); ok && strings.TrimSpace(v) == "1" {
		c.UseColors = false
	}
	if v, ok := lookup(EnvSource); ok && strings.TrimSpace(v) != "" {
		c.Source = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}

func parseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}
