// Package window decides whether a slot's start time falls inside the
// configured eligibility window: a set of weekdays plus a start/end cutoff
// evaluated in a fixed timezone. Evaluation is pure — callers inject the
// instant, the window never reads the clock.
package window

import (
	"fmt"
	"strings"
	"time"
)

// daySymbols maps the two-letter day codes used in DAYS_TO_CHECK to weekdays.
var daySymbols = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// Window is a day-of-week set plus a daily time range in a fixed location.
// If the end cutoff is not after the start cutoff the range wraps past
// midnight (e.g. 22:00–06:00).
type Window struct {
	Days        map[time.Weekday]bool
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	Location    *time.Location
}

// New builds a Window from day symbols ("MO,TU,...") and cutoff times.
func New(days []string, startHour, startMinute, endHour, endMinute int, loc *time.Location) (Window, error) {
	if loc == nil {
		return Window{}, fmt.Errorf("window location is required")
	}
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		wd, ok := daySymbols[strings.ToUpper(strings.TrimSpace(d))]
		if !ok {
			return Window{}, fmt.Errorf("unknown day symbol %q", d)
		}
		set[wd] = true
	}
	if len(set) == 0 {
		return Window{}, fmt.Errorf("window needs at least one day")
	}
	if startHour < 0 || startHour > 23 || endHour < 0 || endHour > 23 ||
		startMinute < 0 || startMinute > 59 || endMinute < 0 || endMinute > 59 {
		return Window{}, fmt.Errorf("window cutoffs out of range: %02d:%02d–%02d:%02d",
			startHour, startMinute, endHour, endMinute)
	}
	return Window{
		Days:        set,
		StartHour:   startHour,
		StartMinute: startMinute,
		EndHour:     endHour,
		EndMinute:   endMinute,
		Location:    loc,
	}, nil
}

// Contains reports whether t falls inside the window. The instant is
// converted to the window's location first, so the result depends only on
// the real-world instant, never on t's offset encoding or the process zone.
// The lower bound is inclusive, the upper bound exclusive: a slot starting
// exactly at the window close is not eligible.
func (w Window) Contains(t time.Time) bool {
	local := t.In(w.Location)
	if !w.Days[local.Weekday()] {
		return false
	}

	cur := local.Hour()*60 + local.Minute()
	start := w.StartHour*60 + w.StartMinute
	end := w.EndHour*60 + w.EndMinute

	if end > start {
		return cur >= start && cur < end
	}
	// Midnight wrap: 22:00–06:00 admits 23:00 and 05:59, rejects 06:00.
	return cur >= start || cur < end
}

// String renders the window for logs, e.g. "MO,TU 18:30–23:00 (-03)".
func (w Window) String() string {
	order := []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
	symbols := map[time.Weekday]string{}
	for s, wd := range daySymbols {
		symbols[wd] = s
	}
	var days []string
	for _, wd := range order {
		if w.Days[wd] {
			days = append(days, symbols[wd])
		}
	}
	return fmt.Sprintf("%s %02d:%02d–%02d:%02d (%s)",
		strings.Join(days, ","),
		w.StartHour, w.StartMinute, w.EndHour, w.EndMinute, w.Location)
}
