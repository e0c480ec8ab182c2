package handler

import (
	"net/http"
	"strconv"

	"github.com/yndnr/macpulse-go/internal/core/service"
)

// handleHeartbeat handles GET /hbd.
//
// Heartbeats arrive as query parameters so that minimal device
// firmware can report with a bare HTTP GET:
//
//	GET /hbd?id=<device>&mac=<aa:bb:cc:dd:ee:ff>&ip=<addr>&lp=<port>&ts=<unix_ms>
//
// Only mac is required. An unknown address creates an entry; a known
// one refreshes it and increments its heartbeat count.
func (h *Handler) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mac := q.Get("mac")
	if mac == "" {
		h.writeError(w, r, http.StatusBadRequest, "MP-ARG-1002", "mac is required", nil)
		return
	}

	req := &service.HeartbeatRequest{
		DeviceID: q.Get("id"),
		MAC:      mac,
		IP:       q.Get("ip"),
	}

	if lp := q.Get("lp"); lp != "" {
		port, err := strconv.Atoi(lp)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "MP-ARG-1001", "lp must be an integer", nil)
			return
		}
		req.LastPort = &port
	}

	if ts := q.Get("ts"); ts != "" {
		lastSeen, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "MP-ARG-1001", "ts must be a unix millisecond timestamp", nil)
			return
		}
		req.LastSeen = lastSeen
	}

	resp, err := h.deviceSvc.Heartbeat(req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}

	h.writeJSON(w, r, status, HeartbeatResponse{
		MAC:            resp.Addr.String(),
		Created:        resp.Created,
		HeartbeatCount: resp.State.HeartbeatCount,
		LastSeen:       resp.State.LastSeen,
	})
}
