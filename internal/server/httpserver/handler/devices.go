package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/macpulse-go/internal/core/domain"
	"github.com/yndnr/macpulse-go/internal/core/service"
)

// handleListDevices handles GET /devices.
//
// Optional query filters: ip, device and mac (substring match),
// min_heartbeats, and older_than_seconds (minimum entry age). All
// given filters must match.
func (h *Handler) handleListDevices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := time.Now()

	var preds []service.Predicate
	if ip := q.Get("ip"); ip != "" {
		preds = append(preds, service.MatchIPContains(ip))
	}
	if device := q.Get("device"); device != "" {
		preds = append(preds, service.MatchDeviceIDContains(device))
	}
	if mac := q.Get("mac"); mac != "" {
		sub := strings.ToLower(mac)
		preds = append(preds, func(addr domain.HardwareAddr, _ *domain.DeviceState) bool {
			return strings.Contains(addr.String(), sub)
		})
	}
	if raw := q.Get("min_heartbeats"); raw != "" {
		min, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "MP-ARG-1001", "min_heartbeats must be an unsigned integer", nil)
			return
		}
		preds = append(preds, service.MatchMinHeartbeats(min))
	}
	if raw := q.Get("older_than_seconds"); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "MP-ARG-1001", "older_than_seconds must be an integer", nil)
			return
		}
		preds = append(preds, service.MatchOlderThan(now, time.Duration(secs)*time.Second))
	}

	var records []domain.DeviceRecord
	if len(preds) == 0 {
		records = h.deviceSvc.Snapshot()
	} else {
		records = h.deviceSvc.CollectMatching(func(addr domain.HardwareAddr, state *domain.DeviceState) bool {
			for _, pred := range preds {
				if !pred(addr, state) {
					return false
				}
			}
			return true
		})
	}

	items := make([]DeviceResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, deviceToResponse(rec.Addr, &rec.State, now))
	}

	// Traversal order is shard order; sort for a stable listing.
	sort.Slice(items, func(i, j int) bool { return items[i].MAC < items[j].MAC })

	h.writeJSON(w, r, http.StatusOK, ListDevicesResponse{
		Items: items,
		Total: len(items),
	})
}

// handleGetDevice handles GET /devices/{mac}.
func (h *Handler) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	mac := r.PathValue("mac")

	state, err := h.deviceSvc.Get(mac)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if state == nil {
		h.writeError(w, r, http.StatusNotFound, "MP-DEV-4040", "device not found", nil)
		return
	}

	addr, _ := domain.ParseHardwareAddr(mac)
	h.writeJSON(w, r, http.StatusOK, deviceToResponse(addr, state, time.Now()))
}

// handleRemoveDevice handles DELETE /devices/{mac}.
//
// Removing an absent address is not an error; the response reports
// whether an entry was actually evicted.
func (h *Handler) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	mac := r.PathValue("mac")

	state, err := h.deviceSvc.Remove(mac)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := RemoveDeviceResponse{Removed: state != nil}
	if state != nil {
		addr, _ := domain.ParseHardwareAddr(mac)
		device := deviceToResponse(addr, state, time.Now())
		resp.Device = &device
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

// handlePurgeDevices handles POST /devices/purge.
func (h *Handler) handlePurgeDevices(w http.ResponseWriter, r *http.Request) {
	var req PurgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "MP-SYS-4000", "invalid request body", nil)
		return
	}

	removed := h.deviceSvc.RemoveAdvanced(req.toCriteria())

	h.writeJSON(w, r, http.StatusOK, PurgeResponse{Removed: removed})
}
