package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

const DaysPerWeek = 7

// clock is a time of day in minutes since midnight.
type clock int

func parseClock(hm string) (clock, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	return clock(t.Hour()*60 + t.Minute()), nil
}

func (c clock) on(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, day.Location())
}

// Window is the working window of one weekday.
type Window struct {
	Weekday  int
	start    clock
	end      clock
	hasBreak bool
	brStart  clock
	brEnd    clock
}

// On anchors the window to the calendar date of day, in day's location.
func (w Window) On(day time.Time) Interval {
	return Interval{Start: w.start.on(day), End: w.end.on(day)}
}

// BreakOn returns the pause inside the window, if the day has one.
func (w Window) BreakOn(day time.Time) (Interval, bool) {
	if !w.hasBreak {
		return Interval{}, false
	}
	return Interval{Start: w.brStart.on(day), End: w.brEnd.on(day)}, true
}

// Calendar is an employee's weekly working hours.
type Calendar struct {
	days [DaysPerWeek]*Window
}

// NewCalendar validates the seven weekday rows of an employee.
func NewCalendar(rows []models.WorkingHours) (*Calendar, error) {
	if len(rows) != DaysPerWeek {
		return nil, httperr.Validation("invalid_working_hours", fmt.Sprintf("expected %d weekdays, got %d", DaysPerWeek, len(rows)))
	}

	cal := &Calendar{}
	seen := [DaysPerWeek]bool{}
	for _, r := range rows {
		if r.Weekday < 0 || r.Weekday >= DaysPerWeek {
			return nil, httperr.Validation("invalid_weekday", fmt.Sprintf("weekday %d out of range", r.Weekday))
		}
		if seen[r.Weekday] {
			return nil, httperr.Validation("duplicate_weekday", fmt.Sprintf("weekday %d repeated", r.Weekday))
		}
		seen[r.Weekday] = true

		if !r.IsWorkingDay {
			continue
		}
		w, err := parseWindow(r)
		if err != nil {
			return nil, httperr.Validation("invalid_working_hours", fmt.Sprintf("weekday %d: %v", r.Weekday, err))
		}
		cal.days[r.Weekday] = w
	}
	return cal, nil
}

func parseWindow(r models.WorkingHours) (*Window, error) {
	start, err := parseClock(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(r.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, fmt.Errorf("start %s must be before end %s", r.StartTime, r.EndTime)
	}

	w := &Window{Weekday: r.Weekday, start: start, end: end}
	if r.BreakStart == "" && r.BreakEnd == "" {
		return w, nil
	}

	bs, err := parseClock(r.BreakStart)
	if err != nil {
		return nil, err
	}
	be, err := parseClock(r.BreakEnd)
	if err != nil {
		return nil, err
	}
	if bs >= be || bs < start || be > end {
		return nil, fmt.Errorf("break %s-%s must lie inside %s-%s", r.BreakStart, r.BreakEnd, r.StartTime, r.EndTime)
	}
	w.hasBreak, w.brStart, w.brEnd = true, bs, be
	return w, nil
}

// Window returns the working window for weekday (0=Sunday). ok is false on
// days off. Passing a weekday outside [0,6] is a programming error.
func (c *Calendar) Window(weekday int) (Window, bool) {
	if weekday < 0 || weekday >= DaysPerWeek {
		panic(fmt.Sprintf("appointment: weekday %d out of range", weekday))
	}
	w := c.days[weekday]
	if w == nil {
		return Window{}, false
	}
	return *w, true
}

// Fits reports whether [start, end) lies inside the working window of
// start's weekday and does not touch the break.
func (c *Calendar) Fits(start, end time.Time) bool {
	if !end.After(start) {
		return false
	}
	w, ok := c.Window(int(start.Weekday()))
	if !ok {
		return false
	}
	day := w.On(start)
	if start.Before(day.Start) || end.After(day.End) {
		return false
	}
	if br, ok := w.BreakOn(start); ok && Overlaps(start, end, br.Start, br.End) {
		return false
	}
	return true
}
