//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFiles lays out a fake procfs under a temp root.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
}

func statLine(pid int, name string, ppid int, utime, stime, start, rss uint64) string {
	return fmt.Sprintf("%d (%s) S %d 0 0 0 -1 0 0 0 0 0 %d %d 0 0 20 0 1 0 %d 1000 %d 0 0\n",
		pid, name, ppid, utime, stime, start, rss)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock { return &fakeClock{t: time.Unix(1_800_000_000, 0)} }
