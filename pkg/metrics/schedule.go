package metrics

import "time"

// schedule tracks when each category was last sampled and computes the next
// deadline across all cadences. It is owned by the sampling goroutine.
type schedule struct {
	intervals Intervals
	last      [numCategories]time.Time
}

func newSchedule(iv Intervals) *schedule {
	return &schedule{intervals: iv.withDefaults()}
}

// due returns the categories whose cadence has elapsed at now. Categories
// never sampled are always due.
func (s *schedule) due(now time.Time) categorySet {
	var set categorySet
	for _, c := range Categories {
		last := s.last[c]
		if last.IsZero() || now.Sub(last) >= s.intervals.For(c) {
			set.add(c)
		}
	}
	return set
}

// mark records a sample of c taken at now. After the first sample the
// reference point advances in whole intervals, so late wake-ups neither
// accumulate drift nor trigger catch-up bursts.
func (s *schedule) mark(c Category, now time.Time) {
	last := s.last[c]
	iv := s.intervals.For(c)
	if last.IsZero() || now.Before(last) {
		s.last[c] = now
		return
	}
	k := now.Sub(last) / iv
	s.last[c] = last.Add(k * iv)
}

// next returns the earliest upcoming deadline.
func (s *schedule) next(now time.Time) time.Time {
	var earliest time.Time
	for _, c := range Categories {
		last := s.last[c]
		if last.IsZero() {
			return now
		}
		at := last.Add(s.intervals.For(c))
		if earliest.IsZero() || at.Before(earliest) {
			earliest = at
		}
	}
	return earliest
}
