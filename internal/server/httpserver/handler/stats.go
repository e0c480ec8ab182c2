package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yndnr/macpulse-go/internal/telemetry/metric"
)

// handleStats handles GET /stats.
//
// The optional stale_threshold_seconds query parameter overrides the
// configured threshold for this one roll-up.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	threshold := h.staleThreshold
	if raw := r.URL.Query().Get("stale_threshold_seconds"); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || secs < 0 {
			h.writeError(w, r, http.StatusBadRequest, "MP-ARG-1001", "stale_threshold_seconds must be a non-negative integer", nil)
			return
		}
		threshold = time.Duration(secs) * time.Second
	}

	h.writeJSON(w, r, http.StatusOK, StatsResponse{
		Cache:      h.deviceSvc.StatsWithThreshold(threshold),
		Operations: h.counters.Snapshot(),
		Aggregate:  h.counters.Aggregate(),
	})
}

// handleStatsReset handles POST /stats/reset.
//
// Returns the statistics as they stood just before the reset, so a
// polling client never loses a window.
func (h *Handler) handleStatsReset(w http.ResponseWriter, r *http.Request) {
	previous := h.counters.SnapshotAndReset()

	h.writeJSON(w, r, http.StatusOK, StatsResponse{
		Cache:      h.deviceSvc.StatsWithThreshold(h.staleThreshold),
		Operations: previous,
		Aggregate:  aggregateOf(previous),
	})
}

// aggregateOf sums a snapshot taken earlier; the live Aggregate would
// already see the zeroed counters.
func aggregateOf(snap map[string]metric.CategorySnapshot) metric.CategorySnapshot {
	var total metric.CategorySnapshot
	for _, s := range snap {
		total.Invocations += s.Invocations
		total.TotalElapsed += s.TotalElapsed
	}
	if total.Invocations > 0 {
		total.Mean = total.TotalElapsed / time.Duration(total.Invocations)
	}
	return total
}
