// Package ledger tracks which slots have already been notified so a slot is
// reported at most once while its ledger entry lives. Entries expire after a
// TTL; membership is always answered from memory, durable storage is the
// source of truth only at open time.
package ledger

import (
	"fmt"
	"time"
)

// Entry is one notified slot. Created on first report, never mutated,
// removed when its age exceeds the TTL. Court and Time are kept verbatim
// for diagnostics only — identity lives in ID.
type Entry struct {
	ID         string `json:"id"`
	Court      string `json:"court"`
	Time       string `json:"time"`
	NotifiedAt int64  `json:"notifiedAt"` // epoch milliseconds
}

// Stats summarizes ledger contents for observability.
type Stats struct {
	Total          int  `json:"total"`
	OldestAgeHours *int `json:"oldestAgeHours"` // nil when the ledger is empty
}

// Ledger is the dedup contract shared by the file and Postgres stores.
//
// Mutations are write-through: the durable copy is rewritten before the call
// returns. Persistence failures are logged at error level and do not stop
// the in-memory state from being used — a stale durable copy only risks a
// duplicate notification after restart, never a missed one.
type Ledger interface {
	// HasBeenNotified answers membership from memory only.
	HasBeenNotified(clubID int, court string, start time.Time) bool

	// MarkAsNotified records a slot stamped with the current instant.
	// Idempotent: marking an already-present slot changes nothing.
	MarkAsNotified(clubID int, court string, start time.Time)

	// Cleanup drops every entry older than ttl and persists afterward even
	// when nothing expired, so storage reflects the latest sweep.
	Cleanup(ttl time.Duration)

	// Stats reports entry count and the age of the oldest entry.
	Stats() Stats
}

// SlotID derives the stable identity for a (club, court, start) triple.
// The start instant is truncated to the minute before rendering as epoch
// milliseconds, so second- or millisecond-level noise in upstream timestamp
// formatting never splits one real-world slot into two identities. Court is
// taken byte-exact: names differing in case or whitespace are distinct.
func SlotID(clubID int, court string, start time.Time) string {
	return fmt.Sprintf("%d_%s_%d", clubID, court, start.Truncate(time.Minute).UnixMilli())
}

// oldestAgeHours computes the rounded age in hours of the oldest entry.
func oldestAgeHours(entries []Entry, now time.Time) *int {
	if len(entries) == 0 {
		return nil
	}
	oldest := entries[0].NotifiedAt
	for _, e := range entries[1:] {
		if e.NotifiedAt < oldest {
			oldest = e.NotifiedAt
		}
	}
	age := time.Duration(now.UnixMilli()-oldest) * time.Millisecond
	hours := int(age.Round(time.Hour) / time.Hour)
	return &hours
}
