// Package handler provides HTTP handlers for all API endpoints.
// Live matches are served from in-memory snapshots; finished matches
// fall back to the Postgres archive when one is configured.
package handler

import (
	"net/http"
	"time"

	"matchday/internal/api/live"
	"matchday/internal/api/respond"
	"matchday/internal/config"
	"matchday/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	manager *live.Manager
	archive *store.Archive // nil when DATABASE_URL is unset
	cfg     *config.Config
}

// New creates a Handler with shared dependencies. archive may be nil.
func New(manager *live.Manager, archive *store.Archive, cfg *config.Config) *Handler {
	return &Handler{
		manager: manager,
		archive: archive,
		cfg:     cfg,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and entry points.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Matchday API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"endpoints": []string{
			"POST /api/v1/matches",
			"GET /api/v1/matches",
			"GET /api/v1/matches/{id}",
			"GET /api/v1/matches/{id}/actions",
			"GET /api/v1/matches/{id}/stats",
			"GET /api/v1/matches/{id}/stream",
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
// @Description Verifies Postgres connectivity, or reports that no archive is configured.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.archive.HealthCheck(r.Context()); err != nil {
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
