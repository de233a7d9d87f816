package util

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// EMA is an exponential moving average; alpha weights the newest value.
type EMA struct {
	alpha, prev float64
	ok          bool
}

func NewEMA(alpha float64) *EMA { return &EMA{alpha: Clamp01(alpha)} }

func (e *EMA) Next(v float64) float64 {
	if !e.ok {
		e.prev, e.ok = v, true
		return v
	}
	e.prev = e.alpha*v + (1-e.alpha)*e.prev
	return e.prev
}

func DeltaU64(now, prev uint64) uint64 {
	if now >= prev {
		return now - prev
	}
	// counter wrapped or prev unset
	return 0
}

func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	// guard against NaN
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// ClampPercent bounds x to [0,100]; NaN becomes 0.
func ClampPercent(x float64) float64 { return 100 * Clamp01(x/100) }

// BusyPercent converts jiffy deltas into a busy percentage.
func BusyPercent(totalDelta, idleDelta uint64) float64 {
	if totalDelta == 0 {
		return 0
	}
	busy := DeltaU64(totalDelta, idleDelta)
	return ClampPercent(100 * float64(busy) / float64(totalDelta))
}

// PerSecond converts a counter delta over seconds into a rate.
func PerSecond(delta uint64, seconds float64) uint64 {
	if !(seconds > 0) {
		return 0
	}
	return uint64(float64(delta) / seconds)
}

// CounterPair tracks two monotonically increasing counters and the time
// they were last observed.
type CounterPair struct {
	a, b uint64
	at   time.Time
}

// Rate returns the per-second deltas against the previous observation and
// stores the new one. The first observation yields zero rates.
func (c *CounterPair) Rate(a, b uint64, now time.Time) (ra, rb uint64) {
	if !c.at.IsZero() {
		dt := now.Sub(c.at).Seconds()
		ra = PerSecond(DeltaU64(a, c.a), dt)
		rb = PerSecond(DeltaU64(b, c.b), dt)
	}
	c.a, c.b, c.at = a, b, now
	return ra, rb
}

// ParsePIDs parses PIDs and inclusive "a..b" ranges into a sorted, de-duplicated list.
func ParsePIDs(args []string) ([]int, error) {
	var out []int
	for _, arg := range args {
		for _, tok := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			lo, hi, isRange := strings.Cut(tok, "..")
			if !isRange {
				hi = lo
			}
			a, err := parsePID(lo)
			if err != nil {
				return nil, err
			}
			b, err := parsePID(hi)
			if err != nil {
				return nil, err
			}
			if b < a {
				return nil, fmt.Errorf("invalid pid range %q", tok)
			}
			for pid := a; pid <= b; pid++ {
				out = append(out, pid)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func parsePID(s string) (int, error) {
	pid, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q", s)
	}
	return pid, nil
}
