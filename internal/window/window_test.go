package window

import (
	"testing"
	"time"
)

func buenosAires(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func mustWindow(t *testing.T, days []string, sh, sm, eh, em int, loc *time.Location) Window {
	t.Helper()
	w, err := New(days, sh, sm, eh, em, loc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestContains_Boundaries(t *testing.T) {
	loc := buenosAires(t)
	w := mustWindow(t, []string{"MO"}, 17, 30, 20, 0, loc)

	// 2025-07-07 is a Monday.
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"just before open", time.Date(2025, 7, 7, 17, 29, 0, 0, loc), false},
		{"exactly at open", time.Date(2025, 7, 7, 17, 30, 0, 0, loc), true},
		{"last eligible minute", time.Date(2025, 7, 7, 19, 59, 0, 0, loc), true},
		{"exactly at close", time.Date(2025, 7, 7, 20, 0, 0, 0, loc), false},
		{"after close", time.Date(2025, 7, 7, 20, 1, 0, 0, loc), false},
		{"right day wrong hour", time.Date(2025, 7, 7, 12, 0, 0, 0, loc), false},
		{"right hour wrong day", time.Date(2025, 7, 8, 18, 0, 0, 0, loc), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestContains_MidnightWrap(t *testing.T) {
	loc := buenosAires(t)
	w := mustWindow(t, []string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}, 22, 0, 6, 0, loc)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"late evening", time.Date(2025, 7, 7, 23, 0, 0, 0, loc), true},
		{"just before wrap close", time.Date(2025, 7, 8, 5, 59, 0, 0, loc), true},
		{"exactly at wrap close", time.Date(2025, 7, 8, 6, 0, 0, 0, loc), false},
		{"midday", time.Date(2025, 7, 8, 12, 0, 0, 0, loc), false},
		{"exactly at wrap open", time.Date(2025, 7, 7, 22, 0, 0, 0, loc), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestContains_IndependentOfRepresentation(t *testing.T) {
	loc := buenosAires(t)
	w := mustWindow(t, []string{"MO"}, 18, 30, 23, 0, loc)

	// The same real-world instant in three encodings.
	local := time.Date(2025, 7, 7, 19, 0, 0, 0, loc)
	utc := local.UTC()
	fixed := local.In(time.FixedZone("X", 5*3600))

	for _, at := range []time.Time{local, utc, fixed} {
		if !w.Contains(at) {
			t.Errorf("Contains(%v) = false, want true regardless of encoding", at)
		}
	}

	// Monday 19:00 -03 is Monday 22:00 UTC. A process evaluating in UTC would
	// still be on Monday here, so cross the date line too: Monday 23:30 local
	// is Tuesday 02:30 UTC — must stay eligible by local weekday rules only.
	lateLocal := time.Date(2025, 7, 7, 22, 30, 0, 0, loc)
	if !w.Contains(lateLocal.UTC()) {
		t.Errorf("Contains(%v UTC) = false, want true (weekday must come from window zone)", lateLocal)
	}
}

func TestNew_Validation(t *testing.T) {
	loc := buenosAires(t)
	if _, err := New([]string{"XX"}, 18, 30, 23, 0, loc); err == nil {
		t.Error("New with unknown day symbol: want error")
	}
	if _, err := New(nil, 18, 30, 23, 0, loc); err == nil {
		t.Error("New with no days: want error")
	}
	if _, err := New([]string{"MO"}, 25, 0, 23, 0, loc); err == nil {
		t.Error("New with out-of-range hour: want error")
	}
	if _, err := New([]string{"MO"}, 18, 30, 23, 0, nil); err == nil {
		t.Error("New with nil location: want error")
	}
	if _, err := New([]string{" mo ", "TU"}, 18, 30, 23, 0, loc); err != nil {
		t.Errorf("New should accept lowercase/padded symbols: %v", err)
	}
}
