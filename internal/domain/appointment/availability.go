package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityInput struct {
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	ServiceID  uuid.UUID
	Date       time.Time
}

// Slots enumerates start times at granularity steps from window.Start where a
// booking of duration fits entirely inside the window and does not intersect
// busy. The latest possible start, window.End-duration, is always a candidate
// even when it is off the grid. The result is ascending.
func Slots(window Interval, duration, granularity time.Duration, busy *IntervalSet) []time.Time {
	if duration <= 0 || granularity <= 0 || !window.End.After(window.Start) {
		return nil
	}
	if busy == nil {
		busy = NewIntervalSet()
	}
	busy.Merge()

	var slots []time.Time
	for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(granularity) {
		candidate := Interval{Start: start, End: start.Add(duration)}
		if busy.Intersects(candidate) {
			continue
		}
		slots = append(slots, start)
	}

	tail := window.End.Add(-duration)
	if tail.Before(window.Start) {
		return slots
	}
	if tail.Sub(window.Start)%granularity != 0 && !busy.Intersects(Interval{Start: tail, End: window.End}) {
		slots = append(slots, tail)
	}
	return slots
}
