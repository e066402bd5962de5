package appointment

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) // Monday
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"disjoint", at(9, 0), at(9, 30), at(10, 0), at(10, 30), false},
		{"touching end to start", at(9, 30), at(10, 0), at(10, 0), at(10, 30), false},
		{"touching start to end", at(10, 30), at(11, 0), at(10, 0), at(10, 30), false},
		{"partial", at(9, 45), at(10, 15), at(10, 0), at(10, 30), true},
		{"contained", at(10, 5), at(10, 10), at(10, 0), at(10, 30), true},
		{"containing", at(9, 0), at(11, 0), at(10, 0), at(10, 30), true},
		{"identical", at(10, 0), at(10, 30), at(10, 0), at(10, 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("Overlaps() swapped = %v, want %v", got, tt.want)
			}
		})
	}
}
