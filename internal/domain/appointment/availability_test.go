package appointment

import (
	"testing"
	"time"
)

func TestSlots_LastStartFitsWindowEnd(t *testing.T) {
	window := Interval{at(9, 0), at(17, 0)}
	slots := Slots(window, 45*time.Minute, 30*time.Minute, nil)

	if len(slots) == 0 {
		t.Fatal("no slots")
	}
	last := slots[len(slots)-1]
	if !last.Equal(at(16, 15)) {
		t.Errorf("last slot = %s, want 16:15", last.Format("15:04"))
	}
	if prev := slots[len(slots)-2]; !prev.Equal(at(16, 0)) {
		t.Errorf("slot before last = %s, want 16:00", prev.Format("15:04"))
	}
	for _, s := range slots {
		if s.Before(window.Start) || s.Add(45*time.Minute).After(window.End) {
			t.Errorf("slot %s leaves the window", s.Format("15:04"))
		}
		if s.Equal(at(16, 30)) {
			t.Error("16:30 must not be offered")
		}
	}
}

func TestSlots_AlignedTailIsNotDuplicated(t *testing.T) {
	slots := Slots(Interval{at(9, 0), at(17, 0)}, 45*time.Minute, 15*time.Minute, nil)
	last := slots[len(slots)-1]
	if !last.Equal(at(16, 15)) {
		t.Errorf("last slot = %s, want 16:15", last.Format("15:04"))
	}
	if slots[len(slots)-2].Equal(last) {
		t.Error("16:15 listed twice")
	}
	// 09:00..16:15 every 15 minutes
	if len(slots) != 30 {
		t.Errorf("len = %d, want 30", len(slots))
	}
}

func TestSlots_TailSkippedWhenBusy(t *testing.T) {
	busy := NewIntervalSet(Interval{at(16, 45), at(17, 0)})
	slots := Slots(Interval{at(9, 0), at(17, 0)}, 45*time.Minute, 30*time.Minute, busy)
	// 16:00 ends exactly where the busy block starts; 16:15 overlaps it.
	last := slots[len(slots)-1]
	if !last.Equal(at(16, 0)) {
		t.Errorf("last slot = %s, want 16:00", last.Format("15:04"))
	}
}

func TestSlots_AdjacentToBookingIsOffered(t *testing.T) {
	busy := NewIntervalSet(Interval{at(10, 0), at(10, 30)})
	slots := Slots(Interval{at(9, 0), at(12, 0)}, 30*time.Minute, 30*time.Minute, busy)

	has := func(t0 time.Time) bool {
		for _, s := range slots {
			if s.Equal(t0) {
				return true
			}
		}
		return false
	}
	if !has(at(9, 30)) {
		t.Error("09:30 should be offered (ends exactly at 10:00)")
	}
	if has(at(10, 0)) {
		t.Error("10:00 must not be offered")
	}
	if !has(at(10, 30)) {
		t.Error("10:30 should be offered")
	}
}

func TestSlots_AscendingAndNoneOverlapBusy(t *testing.T) {
	busy := NewIntervalSet(
		Interval{at(11, 0), at(11, 20)},
		Interval{at(14, 10), at(15, 0)},
	)
	slots := Slots(Interval{at(9, 0), at(17, 0)}, 40*time.Minute, 30*time.Minute, busy)

	for i, s := range slots {
		if i > 0 && !slots[i-1].Before(s) {
			t.Fatalf("slots not ascending at %d", i)
		}
		for _, b := range busy.Intervals() {
			if Overlaps(s, s.Add(40*time.Minute), b.Start, b.End) {
				t.Errorf("slot %s overlaps busy %v", s.Format("15:04"), b)
			}
		}
	}
}

func TestSlots_DegenerateInputs(t *testing.T) {
	w := Interval{at(9, 0), at(10, 0)}
	if got := Slots(w, 0, 30*time.Minute, nil); got != nil {
		t.Errorf("zero duration: %v", got)
	}
	if got := Slots(w, 30*time.Minute, 0, nil); got != nil {
		t.Errorf("zero granularity: %v", got)
	}
	if got := Slots(w, 2*time.Hour, 30*time.Minute, nil); len(got) != 0 {
		t.Errorf("service longer than window: %v", got)
	}
}
