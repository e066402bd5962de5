package appointment

import (
	"sort"
	"time"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// IntervalSet is a collection of busy intervals. Call Merge after adding to
// get the minimal disjoint representation.
type IntervalSet struct {
	items  []Interval
	merged bool
}

func NewIntervalSet(items ...Interval) *IntervalSet {
	s := &IntervalSet{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add ignores empty or inverted intervals.
func (s *IntervalSet) Add(i Interval) {
	if !i.End.After(i.Start) {
		return
	}
	s.items = append(s.items, i)
	s.merged = false
}

// Merge sorts by start and coalesces overlapping or adjacent intervals.
func (s *IntervalSet) Merge() {
	if s.merged || len(s.items) == 0 {
		s.merged = true
		return
	}

	sort.Slice(s.items, func(a, b int) bool {
		return s.items[a].Start.Before(s.items[b].Start)
	})

	out := s.items[:1]
	for _, cur := range s.items[1:] {
		last := &out[len(out)-1]
		if !cur.Start.After(last.End) {
			if cur.End.After(last.End) {
				last.End = cur.End
			}
			continue
		}
		out = append(out, cur)
	}
	s.items = out
	s.merged = true
}

// Intersects reports whether candidate overlaps any busy interval.
func (s *IntervalSet) Intersects(candidate Interval) bool {
	s.Merge()

	// first interval ending after candidate.Start
	idx := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].End.After(candidate.Start)
	})
	return idx < len(s.items) && s.items[idx].Overlaps(candidate)
}

// Subtract returns the free parts of window once every busy interval is
// removed from it, in ascending order.
func (s *IntervalSet) Subtract(window Interval) []Interval {
	s.Merge()

	var free []Interval
	cursor := window.Start
	for _, busy := range s.items {
		if !busy.Overlaps(window) {
			continue
		}
		if busy.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: busy.Start})
		}
		if busy.End.After(cursor) {
			cursor = busy.End
		}
	}
	if window.End.After(cursor) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}

func (s *IntervalSet) Intervals() []Interval {
	s.Merge()
	out := make([]Interval, len(s.items))
	copy(out, s.items)
	return out
}

func (s *IntervalSet) Len() int {
	s.Merge()
	return len(s.items)
}
