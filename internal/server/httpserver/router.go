package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/macpulse-go/internal/core/service"
	"github.com/yndnr/macpulse-go/internal/server/httpserver/handler"
	"github.com/yndnr/macpulse-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// DeviceService handles heartbeat and device operations.
	DeviceService *service.DeviceService

	// Counters provides operation statistics for /stats.
	Counters *metric.Counters

	// MetricsHandler serves GET /metrics (Prometheus exposition);
	// nil disables the endpoint.
	MetricsHandler http.Handler

	// Logger for request logging.
	Logger *slog.Logger

	// StaleThreshold is the age bound used by /stats roll-ups.
	// Zero uses the service default.
	StaleThreshold time.Duration

	// RateLimitRPS is the per-IP request rate limit (0 disables).
	RateLimitRPS float64

	// RateLimitBurst is the burst size of the per-IP limiter.
	RateLimitBurst int

	// EnableAccessLog enables per-request log lines.
	EnableAccessLog bool
}

// NewRouter creates and configures the HTTP router with all routes and
// middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(&handler.Config{
		DeviceService:  cfg.DeviceService,
		Counters:       cfg.Counters,
		MetricsHandler: cfg.MetricsHandler,
		StaleThreshold: cfg.StaleThreshold,
		Logger:         cfg.Logger,
	})

	// Middleware order: Recover -> RequestID -> AccessLog -> RateLimit.
	// Recover sits outermost so a panic in any later layer still maps
	// to a 500 response.
	middlewares := []Middleware{
		Recover(cfg.Logger),
		RequestID(),
	}
	if cfg.EnableAccessLog {
		middlewares = append(middlewares, AccessLog(cfg.Logger))
	}

	// Health and metrics stay reachable for probes even when clients
	// are being throttled.
	probeHandler := Chain(h, middlewares...)

	if cfg.RateLimitRPS > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	mainHandler := Chain(h, middlewares...)

	mux := http.NewServeMux()

	mux.Handle("GET /health", probeHandler)
	mux.Handle("GET /ready", probeHandler)
	mux.Handle("GET /version", probeHandler)
	mux.Handle("GET /metrics", probeHandler)

	mux.Handle("GET /hbd", mainHandler)

	mux.Handle("GET /stats", mainHandler)
	mux.Handle("POST /stats/reset", mainHandler)

	mux.Handle("GET /devices", mainHandler)
	mux.Handle("GET /devices/{mac}", mainHandler)
	mux.Handle("DELETE /devices/{mac}", mainHandler)
	mux.Handle("POST /devices/purge", mainHandler)

	return mux
}
