package watch

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/courtwatch/courtwatch/internal/availability"
	"github.com/courtwatch/courtwatch/internal/config"
	"github.com/courtwatch/courtwatch/internal/ledger"
	"github.com/courtwatch/courtwatch/internal/window"
)

// Source supplies courts with open slots for one club and calendar date.
type Source interface {
	FetchDay(ctx context.Context, clubID int, date string) ([]availability.Court, error)
}

// Scanner runs one scan cycle at a time. It owns the ledger exclusively for
// the duration of a cycle: fetches fan out concurrently, but all filtering
// and every ledger touch happens after the fan-in on a single goroutine.
type Scanner struct {
	Source        Source
	Ledger        ledger.Ledger
	Window        window.Window
	Clubs         []config.Club
	SportID       string
	LookaheadDays int
	TTL           time.Duration
	Workers       int
	Logger        *slog.Logger
	Now           func() time.Time
}

// cell is one (club, date) fetch unit.
type cell struct {
	club config.Club
	date string
}

type cellResult struct {
	cell   cell
	courts []availability.Court
	err    error
}

// Scan performs one full cycle: TTL sweep, fan-out fetch, filter, dedup,
// and write-through marking of everything it returns. A returned slot is
// therefore reported exactly once per ledger lifetime even if the caller's
// delivery fails afterward.
func (s *Scanner) Scan(ctx context.Context) ScanResult {
	start := time.Now()
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	// Sweep expired entries before membership tests so a slot whose previous
	// notification aged out is reported again.
	s.Ledger.Cleanup(s.TTL)

	// Today in the window's zone, so the first scanned date is the club's
	// calendar date even when the process runs elsewhere.
	today := now().In(s.Window.Location)

	var cells []cell
	for _, club := range s.Clubs {
		if !club.Enabled {
			continue
		}
		for i := 0; i < s.LookaheadDays; i++ {
			cells = append(cells, cell{
				club: club,
				date: today.AddDate(0, 0, i).Format("2006-01-02"),
			})
		}
	}

	results := s.fetchAll(ctx, cells, logger)

	var result ScanResult
	result.CellsScanned = len(cells)

	for _, r := range results {
		if r.err != nil {
			// Partial-failure tolerance: this cell contributes nothing, the
			// rest of the cycle proceeds.
			logger.Warn("availability fetch failed",
				"club", r.cell.club.DisplayName, "club_id", r.cell.club.ID,
				"date", r.cell.date, "error", r.err)
			result.CellsFailed++
			continue
		}
		for _, court := range r.courts {
			if !hasSport(court.SportIDs, s.SportID) {
				continue
			}
			for _, ts := range court.AvailableSlots {
				startAt, err := parseStart(ts.Start, s.Window.Location)
				if err != nil {
					logger.Warn("unparseable slot start",
						"club_id", r.cell.club.ID, "court", court.Name,
						"start", ts.Start, "error", err)
					continue
				}
				if !s.Window.Contains(startAt) {
					continue
				}
				if s.Ledger.HasBeenNotified(r.cell.club.ID, court.Name, startAt) {
					continue
				}
				result.NewSlots = append(result.NewSlots, Slot{
					Club:  r.cell.club,
					Court: court.Name,
					Start: startAt,
				})
			}
		}
	}

	// Stable grouping for the outgoing message: by club, then start time.
	sort.SliceStable(result.NewSlots, func(i, j int) bool {
		a, b := result.NewSlots[i], result.NewSlots[j]
		if a.Club.ID != b.Club.ID {
			return a.Club.ID < b.Club.ID
		}
		return a.Start.Before(b.Start)
	})

	// Mark the full result set before the caller attempts delivery: a failed
	// send must not cause re-delivery on the next cycle (at-most-once).
	for _, slot := range result.NewSlots {
		s.Ledger.MarkAsNotified(slot.Club.ID, slot.Court, slot.Start)
	}

	result.Duration = time.Since(start)
	logger.Info("scan cycle complete", "summary", result.Summary())
	return result
}

// fetchAll fans the cells out over a bounded worker pool and joins before
// returning. Result order follows cell order, not completion order.
func (s *Scanner) fetchAll(ctx context.Context, cells []cell, logger *slog.Logger) []cellResult {
	workers := s.Workers
	if workers < 1 {
		workers = 4
	}
	if workers > len(cells) {
		workers = len(cells)
	}

	ch := make(chan int, len(cells))
	for i := range cells {
		ch <- i
	}
	close(ch)

	results := make([]cellResult, len(cells))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ch {
				c := cells[i]
				courts, err := s.Source.FetchDay(ctx, c.club.ID, c.date)
				results[i] = cellResult{cell: c, courts: courts, err: err}
			}
		}()
	}
	wg.Wait()
	return results
}

func hasSport(ids []string, sportID string) bool {
	for _, id := range ids {
		if id == sportID {
			return true
		}
	}
	return false
}

// parseStart accepts the instants the availability API is known to emit:
// RFC3339 with offset, or a bare local datetime interpreted in the window's
// zone.
func parseStart(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04:05", raw, loc)
}
