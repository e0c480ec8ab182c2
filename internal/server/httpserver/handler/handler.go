package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yndnr/macpulse-go/internal/core/domain"
	"github.com/yndnr/macpulse-go/internal/core/service"
	"github.com/yndnr/macpulse-go/internal/telemetry/metric"
)

// Config holds the dependencies of the Handler.
type Config struct {
	// DeviceService handles heartbeat and device operations.
	DeviceService *service.DeviceService

	// Counters provides operation statistics for /stats.
	Counters *metric.Counters

	// MetricsHandler serves GET /metrics; nil disables the endpoint.
	MetricsHandler http.Handler

	// StaleThreshold is the age bound used by /stats roll-ups.
	// Zero uses the service default.
	StaleThreshold time.Duration

	// Logger for handler-level logging.
	Logger *slog.Logger
}

// Handler is the main HTTP handler that routes requests to appropriate
// handlers.
type Handler struct {
	deviceSvc      *service.DeviceService
	counters       *metric.Counters
	staleThreshold time.Duration
	logger         *slog.Logger
	mux            *http.ServeMux
	healthChecks   atomic.Uint64
}

// New creates a new Handler with the given dependencies.
func New(cfg *Config) *Handler {
	threshold := cfg.StaleThreshold
	if threshold <= 0 {
		threshold = service.DefaultStaleThreshold
	}

	h := &Handler{
		deviceSvc:      cfg.DeviceService,
		counters:       cfg.Counters,
		staleThreshold: threshold,
		logger:         cfg.Logger,
		mux:            http.NewServeMux(),
	}

	h.registerRoutes(cfg.MetricsHandler)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes(metricsHandler http.Handler) {
	// Health endpoints
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	h.mux.HandleFunc("GET /version", h.handleVersion)

	// Heartbeat ingestion
	h.mux.HandleFunc("GET /hbd", h.handleHeartbeat)

	// Statistics endpoints
	h.mux.HandleFunc("GET /stats", h.handleStats)
	h.mux.HandleFunc("POST /stats/reset", h.handleStatsReset)

	// Device endpoints
	h.mux.HandleFunc("GET /devices", h.handleListDevices)
	h.mux.HandleFunc("GET /devices/{mac}", h.handleGetDevice)
	h.mux.HandleFunc("DELETE /devices/{mac}", h.handleRemoveDevice)
	h.mux.HandleFunc("POST /devices/purge", h.handlePurgeDevices)

	// Prometheus exposition (raw, no envelope)
	if metricsHandler != nil {
		h.mux.Handle("GET /metrics", metricsHandler)
	}
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(w, r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(w, r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// getRequestID extracts the request ID: the client-supplied request
// header when present, otherwise the ID the middleware generated and
// stamped on the response header.
func getRequestID(w http.ResponseWriter, r *http.Request) string {
	if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
		return reqID
	}
	return w.Header().Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := errorCodeToHTTPStatus(code)
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	// Generic internal error
	h.logger.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "MP-SYS-5000", "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4000"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "MP-ARG-"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "MP-SYS-5"), strings.HasPrefix(code, "MP-SWEEP-"), strings.HasPrefix(code, "MP-CONF-"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
