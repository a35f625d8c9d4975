// Package handler provides HTTP handlers for the watcher's status API.
// Handlers only read configuration and the runner's status snapshot — the
// ledger has a single writer (the scan cycle) and is never exposed here
// directly.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/courtwatch/courtwatch/internal/api/respond"
	"github.com/courtwatch/courtwatch/internal/config"
	"github.com/courtwatch/courtwatch/internal/db"
	"github.com/courtwatch/courtwatch/internal/watch"
)

// Handler holds shared dependencies for all endpoint handlers. pool is nil
// when the ledger is file-backed.
type Handler struct {
	cfg    *config.Config
	status *watch.Status
	pool   *db.Pool
}

// New creates a Handler with shared dependencies.
func New(cfg *config.Config, status *watch.Status, pool *db.Pool) *Handler {
	return &Handler{cfg: cfg, status: status, pool: pool}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns service name, sport tag, and scan settings.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":           "courtwatch",
		"status":         "running",
		"sport_id":       h.cfg.SportID,
		"lookahead_days": h.cfg.LookaheadDays,
		"check_interval": h.cfg.CheckInterval.String(),
		"docs":           "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies ledger database connectivity when Postgres is the
// ledger backend; with the file backend it reports not_applicable.
// @Summary Ledger database health check
// @Description Verifies Postgres connectivity for the ledger backend.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"backend": "file",
			"note":    "ledger is file-backed, no database configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if err := h.pool.HealthCheck(ctx); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"backend": "postgres",
			"error":   "Database connection check failed",
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"backend": "postgres",
	})
}

// GetStatus reports the last scan cycle and ledger stats.
// @Summary Watcher status
// @Description Last cycle summary, lifetime counters, and ledger stats.
// @Tags status
// @Produce json
// @Success 200 {object} watch.Snapshot
// @Router /api/v1/status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, h.status.Snapshot())
}

// GetClubs lists the configured clubs.
// @Summary Configured clubs
// @Description The club registry, including disabled clubs.
// @Tags status
// @Produce json
// @Success 200 {array} config.Club
// @Router /api/v1/clubs [get]
func (h *Handler) GetClubs(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, h.cfg.Clubs)
}
