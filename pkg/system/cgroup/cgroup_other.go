//go:build !linux

package cgroup

// Detect reports Unsupported on non-Linux platforms.
func Detect() (Version, string, error) {
	return Unsupported, "cgroups are linux-only", nil
}
