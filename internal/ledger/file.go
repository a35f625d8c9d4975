package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// document is the on-disk shape. It matches the JSON the original notifier
// wrote, so an existing notified-slots.json keeps working across upgrades.
// Unknown fields are ignored on load; missing fields decode to zero values.
type document struct {
	NotifiedSlots []Entry `json:"notifiedSlots"`
	LastCleanup   int64   `json:"lastCleanup"` // epoch milliseconds
}

// FileStore is the default Ledger: a single JSON file loaded fully into
// memory at open and rewritten in full on every mutation. Writes go to a
// temp file first and are renamed into place, so a crash never leaves a
// truncated document behind. Single writer per path is a deployment
// constraint — there is no file locking.
type FileStore struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries []Entry
	ids     map[string]struct{}
	last    int64
}

// OpenFile loads the ledger at path. A missing or unreadable file starts an
// empty ledger with a warning — losing dedup history only risks a duplicate
// notification, which beats refusing to watch at all.
func OpenFile(path string, logger *slog.Logger, now func() time.Time) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	s := &FileStore{
		path:   path,
		logger: logger,
		now:    now,
		ids:    map[string]struct{}{},
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.last = now().UnixMilli()
		return s
	case err != nil:
		logger.Warn("ledger file unreadable, starting empty", "path", path, "error", err)
		s.last = now().UnixMilli()
		return s
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("ledger file corrupt, starting empty", "path", path, "error", err)
		s.last = now().UnixMilli()
		return s
	}

	s.entries = doc.NotifiedSlots
	s.last = doc.LastCleanup
	for _, e := range s.entries {
		s.ids[e.ID] = struct{}{}
	}
	logger.Info("ledger loaded", "path", path, "entries", len(s.entries))
	return s
}

func (s *FileStore) HasBeenNotified(clubID int, court string, start time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[SlotID(clubID, court, start)]
	return ok
}

func (s *FileStore) MarkAsNotified(clubID int, court string, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := SlotID(clubID, court, start)
	if _, ok := s.ids[id]; ok {
		return
	}
	s.entries = append(s.entries, Entry{
		ID:         id,
		Court:      court,
		Time:       start.Format(time.RFC3339),
		NotifiedAt: s.now().UnixMilli(),
	})
	s.ids[id] = struct{}{}
	s.logger.Info("slot marked as notified", "club_id", clubID, "court", court, "start", start)
	s.saveLocked()
}

func (s *FileStore) Cleanup(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if time.Duration(now-e.NotifiedAt)*time.Millisecond < ttl {
			kept = append(kept, e)
		} else {
			delete(s.ids, e.ID)
		}
	}
	if removed := len(s.entries) - len(kept); removed > 0 {
		s.logger.Info("ledger cleanup removed expired entries", "removed", removed, "remaining", len(kept))
	}
	s.entries = kept
	s.last = now
	// Persist even when nothing expired so lastCleanup stays honest.
	s.saveLocked()
}

func (s *FileStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Total:          len(s.entries),
		OldestAgeHours: oldestAgeHours(s.entries, s.now()),
	}
}

// saveLocked rewrites the full document atomically. Callers hold s.mu.
func (s *FileStore) saveLocked() {
	doc := document{NotifiedSlots: s.entries, LastCleanup: s.last}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.logger.Error("ledger marshal failed, durable copy is stale", "path", s.path, "error", err)
		return
	}
	if err := writeAtomic(s.path, raw); err != nil {
		s.logger.Error("ledger persist failed, durable copy is stale", "path", s.path, "error", err)
	}
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
