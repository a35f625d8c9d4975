package watch

import (
	"sync"
	"time"

	"github.com/courtwatch/courtwatch/internal/ledger"
)

// Snapshot is the read-only view of the watcher served by the status API.
type Snapshot struct {
	LastCycleAt  *time.Time   `json:"lastCycleAt"`
	LastNewSlots int          `json:"lastNewSlots"`
	LastCells    int          `json:"lastCells"`
	LastFailed   int          `json:"lastFailed"`
	CyclesRun    int          `json:"cyclesRun"`
	SlotsFound   int          `json:"slotsFound"`
	Ledger       ledger.Stats `json:"ledger"`
}

// Status is the mutex-guarded cycle summary the runner updates and the
// status API reads. The ledger itself is never shared outside a cycle; the
// API only ever sees this snapshot.
type Status struct {
	mu   sync.Mutex
	snap Snapshot
}

// Record folds one cycle's outcome into the snapshot.
func (s *Status) Record(at time.Time, result ScanResult, stats ledger.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at = at.UTC()
	s.snap.LastCycleAt = &at
	s.snap.LastNewSlots = len(result.NewSlots)
	s.snap.LastCells = result.CellsScanned
	s.snap.LastFailed = result.CellsFailed
	s.snap.CyclesRun++
	s.snap.SlotsFound += len(result.NewSlots)
	s.snap.Ledger = stats
}

// Snapshot returns a copy safe to serialize concurrently with updates.
func (s *Status) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
