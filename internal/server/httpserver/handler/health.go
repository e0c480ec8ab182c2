package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/macpulse-go/internal/infra/buildinfo"
)

// handleHealth handles GET /health. Each call bumps the process-wide
// health-check counter reported in the payload.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	count := h.healthChecks.Add(1)

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"status":             "healthy",
		"service":            "macpulse",
		"version":            buildinfo.Version,
		"devices":            h.deviceSvc.Len(),
		"health_check_count": count,
		"time":               time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVersion handles GET /version.
func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, buildinfo.Get())
}
