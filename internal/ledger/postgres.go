package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/courtwatch/courtwatch/internal/db"
)

// opTimeout bounds each write-through database call. The Ledger contract has
// no context parameter — membership is in-memory and mutations are fire-and-
// forget persistence — so the store derives short-lived contexts itself.
const opTimeout = 5 * time.Second

// PGStore is the Postgres-backed Ledger for deployments that already run a
// database. It honors the same contract as FileStore: all entries are loaded
// into memory at open, membership never touches the database, and every
// mutation writes through immediately.
type PGStore struct {
	pool   *db.Pool
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries []Entry
	ids     map[string]struct{}
}

// OpenPostgres loads all ledger rows into memory. Unlike file corruption, an
// unreachable database is an error: the caller chose Postgres explicitly and
// silently degrading to an empty shared ledger would duplicate notifications
// on every deploy.
func OpenPostgres(ctx context.Context, pool *db.Pool, logger *slog.Logger, now func() time.Time) (*PGStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	s := &PGStore{
		pool:   pool,
		logger: logger,
		now:    now,
		ids:    map[string]struct{}{},
	}

	rows, err := pool.Query(ctx, "ledger_load")
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Court, &e.Time, &e.NotifiedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		s.entries = append(s.entries, e)
		s.ids[e.ID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	logger.Info("ledger loaded", "backend", "postgres", "entries", len(s.entries))
	return s, nil
}

func (s *PGStore) HasBeenNotified(clubID int, court string, start time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[SlotID(clubID, court, start)]
	return ok
}

func (s *PGStore) MarkAsNotified(clubID int, court string, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := SlotID(clubID, court, start)
	if _, ok := s.ids[id]; ok {
		return
	}
	e := Entry{
		ID:         id,
		Court:      court,
		Time:       start.Format(time.RFC3339),
		NotifiedAt: s.now().UnixMilli(),
	}
	s.entries = append(s.entries, e)
	s.ids[id] = struct{}{}
	s.logger.Info("slot marked as notified", "club_id", clubID, "court", court, "start", start)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := s.pool.Exec(ctx, "ledger_insert", e.ID, e.Court, e.Time, e.NotifiedAt); err != nil {
		s.logger.Error("ledger persist failed, durable copy is stale", "id", id, "error", err)
	}
}

func (s *PGStore) Cleanup(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	cutoff := now - ttl.Milliseconds()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.NotifiedAt > cutoff {
			kept = append(kept, e)
		} else {
			delete(s.ids, e.ID)
		}
	}
	removed := len(s.entries) - len(kept)
	s.entries = kept
	if removed > 0 {
		s.logger.Info("ledger cleanup removed expired entries", "removed", removed, "remaining", len(kept))
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := s.pool.Exec(ctx, "ledger_delete_expired", cutoff+1); err != nil {
		s.logger.Error("ledger cleanup persist failed", "error", err)
	}
}

func (s *PGStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Total:          len(s.entries),
		OldestAgeHours: oldestAgeHours(s.entries, s.now()),
	}
}
