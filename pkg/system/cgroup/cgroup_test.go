//go:build linux

package cgroup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mountV2 = "29 23 0:26 / /sys/fs/cgroup rw,nosuid,nodev,noexec,relatime shared:4 - cgroup2 cgroup2 rw,nsdelegate\n"
	mountV1 = "35 25 0:30 / /sys/fs/cgroup/cpu rw,nosuid shared:10 - cgroup cgroup rw,cpu\n"
	mountFS = "22 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw\n"
)

func writeMountInfo(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "mountinfo")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   Version
		detail string
	}{
		{"v2", mountFS + mountV2, V2, "cgroup2 on /sys/fs/cgroup"},
		{"v1", mountFS + mountV1, V1, "cgroup v1 on /sys/fs/cgroup/cpu"},
		{"hybrid", mountV1 + mountV2, Hybrid, "cgroup2 on /sys/fs/cgroup; cgroup v1 on /sys/fs/cgroup/cpu"},
		{"none", mountFS + "garbage line\n", Unsupported, "no cgroup mounts found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ver, detail, err := DetectFrom(writeMountInfo(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ver)
			assert.Equal(t, tt.detail, detail)
		})
	}
}

func TestDetectFrom_Missing(t *testing.T) {
	ver, _, err := DetectFrom(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, Unsupported, ver)
}

func TestDetect(t *testing.T) {
	ver, str, err := Detect()
	require.NoError(t, err)
	assert.NotEmpty(t, str)
	t.Logf("detected %s: %s", ver, str)
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "cgroup v2", V2.String())
	assert.Equal(t, "cgroup hybrid", Hybrid.String())
	assert.Equal(t, "unsupported", Version(42).String())
}
