package models

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9am", 0, true},
		{"09:60", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.minutes {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.minutes)
		}
	}
}

func TestParseLocalDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	d, err := ParseLocalDate("2026-03-08", loc)
	if err != nil {
		t.Fatalf("ParseLocalDate: %v", err)
	}
	if d.Hour() != 0 || d.Location() != loc {
		t.Errorf("expected local midnight, got %v", d)
	}

	if _, err := ParseLocalDate("03/08/2026", loc); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestTimeSlotOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
	}
	slot := TimeSlot{StartUTC: at(10), EndUTC: at(11)}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical", at(10), at(11), true},
		{"contains", at(9), at(12), true},
		{"partial front", at(9), at(10).Add(30 * time.Minute), true},
		{"partial back", at(10).Add(30 * time.Minute), at(12), true},
		{"touching before", at(9), at(10), false},
		{"touching after", at(11), at(12), false},
		{"disjoint", at(13), at(14), false},
	}

	for _, tc := range cases {
		if got := slot.Overlaps(tc.start, tc.end); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}
