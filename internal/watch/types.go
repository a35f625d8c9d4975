// Package watch implements the availability scan cycle: fan out one fetch
// per enabled club and look-ahead date, narrow the candidates to the sport
// of interest and the eligibility window, drop everything the ledger has
// already reported, and hand the rest to the notifier.
package watch

import (
	"fmt"
	"time"

	"github.com/courtwatch/courtwatch/internal/config"
)

// Slot is one reservable court-time discovered by a scan. Produced fresh on
// every cycle, never persisted directly — the ledger keeps only identities.
type Slot struct {
	Club  config.Club
	Court string
	Start time.Time
}

// ScanResult tracks one cycle's outcome.
type ScanResult struct {
	NewSlots     []Slot
	CellsScanned int // (club × date) fetches attempted
	CellsFailed  int // fetches that errored and contributed zero candidates
	Duration     time.Duration
}

// Summary returns a human-readable one-liner for logs.
func (r ScanResult) Summary() string {
	return fmt.Sprintf("new_slots=%d cells=%d failed=%d duration=%s",
		len(r.NewSlots), r.CellsScanned, r.CellsFailed, r.Duration.Round(time.Millisecond))
}

// Notifier delivers one cycle's new slots to a human. Failure is logged by
// the caller, never retried — the slots are already marked in the ledger.
type Notifier interface {
	NotifySlots(slots []Slot) error
}
