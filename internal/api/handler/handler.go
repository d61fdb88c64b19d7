// Package handler provides HTTP handlers for all API endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/pitwall-data/internal/api/respond"
	"github.com/albapepper/pitwall-data/internal/seed"
)

// Pinger reports database connectivity.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// DriverSyncer triggers a driver synchronization.
type DriverSyncer interface {
	SyncDrivers(ctx context.Context, trigger string, opts seed.Options) (seed.Result, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	db      Pinger
	drivers DriverSyncer
	logger  *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(db Pinger, drivers DriverSyncer, logger *slog.Logger) *Handler {
	return &Handler{db: db, drivers: drivers, logger: logger}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and available endpoints.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Pitwall Data API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": []string{
			"GET /health",
			"GET /health/db",
			"GET /metrics",
			"POST /api/v1/admin/ingest/drivers",
		},
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

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
