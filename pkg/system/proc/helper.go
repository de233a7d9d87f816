//go:build linux

package proc

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// scanLines calls fn for every line of path until fn returns false.
func scanLines(path string, fn func(line string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if !fn(sc.Text()) {
			break
		}
	}
	return sc.Err()
}

// parseKB parses a "<n> kB" meminfo value into bytes.
func parseKB(s string) uint64 {
	f := strings.Fields(s)
	if len(f) == 0 {
		return 0
	}
	v, _ := strconv.ParseUint(f[0], 10, 64)
	if len(f) > 1 && f[1] == "kB" {
		v *= 1024
	}
	return v
}

// fieldU64 returns fields[idx] as uint64, or 0 when missing or malformed.
func fieldU64(fields []string, idx int) uint64 {
	if idx >= len(fields) {
		return 0
	}
	v, _ := strconv.ParseUint(fields[idx], 10, 64)
	return v
}
