package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/courtwatch/courtwatch/internal/availability"
	"github.com/courtwatch/courtwatch/internal/config"
	"github.com/courtwatch/courtwatch/internal/ledger"
	"github.com/courtwatch/courtwatch/internal/window"
)

// fakeSource serves canned courts per (clubID, date) and can fail whole clubs.
type fakeSource struct {
	courts   map[string][]availability.Court // key: "clubID/date"
	failClub map[int]bool
}

func (f *fakeSource) FetchDay(ctx context.Context, clubID int, date string) ([]availability.Court, error) {
	if f.failClub[clubID] {
		return nil, errors.New("boom")
	}
	return f.courts[key(clubID, date)], nil
}

func key(clubID int, date string) string {
	return fmt.Sprintf("%d/%s", clubID, date)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWindow(t *testing.T) window.Window {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	w, err := window.New([]string{"MO", "TU", "WE", "TH", "FR"}, 18, 30, 23, 0, loc)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	return w
}

func testClub(id int, name string) config.Club {
	return config.Club{
		ID:                     id,
		Name:                   name,
		DisplayName:            name,
		Enabled:                true,
		ReservationURLTemplate: "https://example.com/" + name + "?dia={date}",
	}
}

func newScanner(t *testing.T, src Source, clubs []config.Club, lookahead int) *Scanner {
	t.Helper()
	w := testWindow(t)
	led := ledger.OpenFile(filepath.Join(t.TempDir(), "ledger.json"), discard(), nil)
	// Fixed "now": Monday 2025-07-07 10:00 in Buenos Aires.
	now := time.Date(2025, 7, 7, 10, 0, 0, 0, w.Location)
	return &Scanner{
		Source:        src,
		Ledger:        led,
		Window:        w,
		Clubs:         clubs,
		SportID:       "7",
		LookaheadDays: lookahead,
		TTL:           24 * time.Hour,
		Logger:        discard(),
		Now:           func() time.Time { return now },
	}
}

func TestScan_ReportsEligibleSlotOnceAcrossCycles(t *testing.T) {
	// Scenario: club 1294, sport tag "7", window Mon–Fri 18:30–23:00
	// America/Argentina/Buenos_Aires, candidate Court 1 Monday 19:00 -03.
	src := &fakeSource{courts: map[string][]availability.Court{
		key(1294, "2025-07-07"): {
			{
				Name:     "Court 1",
				SportIDs: []string{"7"},
				AvailableSlots: []availability.TimeSlot{
					{Start: "2025-07-07T19:00:00-03:00"},
				},
			},
		},
	}}
	s := newScanner(t, src, []config.Club{testClub(1294, "Club A")}, 1)

	first := s.Scan(context.Background())
	if len(first.NewSlots) != 1 {
		t.Fatalf("first scan new slots = %d, want 1", len(first.NewSlots))
	}
	got := first.NewSlots[0]
	if got.Club.ID != 1294 || got.Court != "Court 1" {
		t.Errorf("unexpected slot: %+v", got)
	}

	second := s.Scan(context.Background())
	if len(second.NewSlots) != 0 {
		t.Errorf("second scan new slots = %d, want 0 (already notified)", len(second.NewSlots))
	}
}

func TestScan_FiltersSportAndWindow(t *testing.T) {
	src := &fakeSource{courts: map[string][]availability.Court{
		key(1294, "2025-07-07"): {
			{
				// Right sport, mixed eligibility.
				Name:     "Court 1",
				SportIDs: []string{"7"},
				AvailableSlots: []availability.TimeSlot{
					{Start: "2025-07-07T17:00:00-03:00"}, // before window opens
					{Start: "2025-07-07T19:00:00-03:00"}, // eligible
					{Start: "2025-07-07T23:00:00-03:00"}, // exactly at close — excluded
				},
			},
			{
				// Wrong sport entirely.
				Name:     "Tennis Court",
				SportIDs: []string{"2"},
				AvailableSlots: []availability.TimeSlot{
					{Start: "2025-07-07T19:00:00-03:00"},
				},
			},
		},
	}}
	s := newScanner(t, src, []config.Club{testClub(1294, "Club A")}, 1)

	result := s.Scan(context.Background())
	if len(result.NewSlots) != 1 {
		t.Fatalf("new slots = %d, want 1 (sport + window filtered): %+v", len(result.NewSlots), result.NewSlots)
	}
	if got := result.NewSlots[0].Start.In(s.Window.Location).Hour(); got != 19 {
		t.Errorf("surviving slot hour = %d, want 19", got)
	}
}

func TestScan_PartialFailureKeepsOtherClubs(t *testing.T) {
	eligible := []availability.TimeSlot{{Start: "2025-07-07T19:00:00-03:00"}}
	src := &fakeSource{
		courts: map[string][]availability.Court{
			key(2, "2025-07-07"): {{Name: "Court B", SportIDs: []string{"7"}, AvailableSlots: eligible}},
		},
		failClub: map[int]bool{1: true},
	}
	s := newScanner(t, src, []config.Club{testClub(1, "Club A"), testClub(2, "Club B")}, 1)

	result := s.Scan(context.Background())
	if len(result.NewSlots) != 1 || result.NewSlots[0].Club.ID != 2 {
		t.Fatalf("want club B's slot despite club A failing, got %+v", result.NewSlots)
	}
	if result.CellsFailed != 1 {
		t.Errorf("CellsFailed = %d, want 1", result.CellsFailed)
	}
	if result.CellsScanned != 2 {
		t.Errorf("CellsScanned = %d, want 2", result.CellsScanned)
	}
}

func TestScan_SkipsDisabledClubs(t *testing.T) {
	src := &fakeSource{courts: map[string][]availability.Court{
		key(1, "2025-07-07"): {{
			Name: "Court 1", SportIDs: []string{"7"},
			AvailableSlots: []availability.TimeSlot{{Start: "2025-07-07T19:00:00-03:00"}},
		}},
	}}
	club := testClub(1, "Club A")
	club.Enabled = false
	s := newScanner(t, src, []config.Club{club}, 1)

	result := s.Scan(context.Background())
	if result.CellsScanned != 0 || len(result.NewSlots) != 0 {
		t.Errorf("disabled club must not be scanned: %+v", result)
	}
}

func TestScan_LookaheadCoversConsecutiveDates(t *testing.T) {
	slot := func(day int) []availability.TimeSlot {
		return []availability.TimeSlot{{Start: fmt.Sprintf("2025-07-%02dT19:00:00-03:00", day)}}
	}
	src := &fakeSource{courts: map[string][]availability.Court{
		key(1, "2025-07-07"): {{Name: "C", SportIDs: []string{"7"}, AvailableSlots: slot(7)}},  // Mon
		key(1, "2025-07-08"): {{Name: "C", SportIDs: []string{"7"}, AvailableSlots: slot(8)}},  // Tue
		key(1, "2025-07-12"): {{Name: "C", SportIDs: []string{"7"}, AvailableSlots: slot(12)}}, // Sat — outside window days
	}}
	s := newScanner(t, src, []config.Club{testClub(1, "Club A")}, 6)

	result := s.Scan(context.Background())
	if result.CellsScanned != 6 {
		t.Errorf("CellsScanned = %d, want 6", result.CellsScanned)
	}
	// Monday and Tuesday slots eligible, Saturday rejected by the day set.
	if len(result.NewSlots) != 2 {
		t.Fatalf("new slots = %d, want 2: %+v", len(result.NewSlots), result.NewSlots)
	}
}

func TestScan_OrdersSlotsByClubThenStart(t *testing.T) {
	src := &fakeSource{courts: map[string][]availability.Court{
		key(2, "2025-07-07"): {{Name: "C2", SportIDs: []string{"7"}, AvailableSlots: []availability.TimeSlot{
			{Start: "2025-07-07T21:00:00-03:00"},
			{Start: "2025-07-07T19:00:00-03:00"},
		}}},
		key(1, "2025-07-07"): {{Name: "C1", SportIDs: []string{"7"}, AvailableSlots: []availability.TimeSlot{
			{Start: "2025-07-07T20:00:00-03:00"},
		}}},
	}}
	// Club order in config is 2 then 1; output is still grouped by club id.
	s := newScanner(t, src, []config.Club{testClub(2, "Club B"), testClub(1, "Club A")}, 1)

	result := s.Scan(context.Background())
	if len(result.NewSlots) != 3 {
		t.Fatalf("new slots = %d, want 3", len(result.NewSlots))
	}
	if result.NewSlots[0].Club.ID != 1 {
		t.Errorf("first slot club = %d, want 1", result.NewSlots[0].Club.ID)
	}
	if !result.NewSlots[1].Start.Before(result.NewSlots[2].Start) {
		t.Error("slots within a club must be ordered by start time")
	}
}

func TestScan_ExpiredLedgerEntryIsReportedAgain(t *testing.T) {
	src := &fakeSource{courts: map[string][]availability.Court{
		key(1294, "2025-07-07"): {{
			Name: "Court 1", SportIDs: []string{"7"},
			AvailableSlots: []availability.TimeSlot{{Start: "2025-07-07T19:00:00-03:00"}},
		}},
	}}
	s := newScanner(t, src, []config.Club{testClub(1294, "Club A")}, 1)

	if got := s.Scan(context.Background()); len(got.NewSlots) != 1 {
		t.Fatalf("first scan new slots = %d, want 1", len(got.NewSlots))
	}

	// Jump the clock past the TTL; the cycle's opening sweep must expire the
	// entry and the same slot becomes reportable again.
	base := s.Now()
	s.Now = func() time.Time { return base.Add(25 * time.Hour) }
	// Keep the fixture on a weekday the window admits: 25h later is Tuesday,
	// and the Monday slot date is in the past — serve it on the new "today".
	src.courts[key(1294, "2025-07-08")] = []availability.Court{{
		Name: "Court 1", SportIDs: []string{"7"},
		AvailableSlots: []availability.TimeSlot{{Start: "2025-07-07T19:00:00-03:00"}},
	}}

	if got := s.Scan(context.Background()); len(got.NewSlots) != 1 {
		t.Errorf("slot should be reported again after its ledger entry expired, got %d", len(got.NewSlots))
	}
}

func TestParseStart(t *testing.T) {
	loc, _ := time.LoadLocation("America/Argentina/Buenos_Aires")

	withOffset, err := parseStart("2025-07-07T19:00:00-03:00", loc)
	if err != nil {
		t.Fatalf("parse RFC3339: %v", err)
	}
	bare, err := parseStart("2025-07-07 19:00:00", loc)
	if err != nil {
		t.Fatalf("parse bare datetime: %v", err)
	}
	if !withOffset.Equal(bare) {
		t.Errorf("both encodings should be the same instant: %v vs %v", withOffset, bare)
	}

	if _, err := parseStart("next tuesday", loc); err == nil {
		t.Error("garbage start: want error")
	}
}
