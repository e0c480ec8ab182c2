package handler

import (
	"time"

	"github.com/yndnr/macpulse-go/internal/core/domain"
	"github.com/yndnr/macpulse-go/internal/core/service"
	"github.com/yndnr/macpulse-go/internal/telemetry/metric"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses
// Prometheus exposition format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"` // Additional error details
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// HeartbeatResponse is the response body for GET /hbd.
type HeartbeatResponse struct {
	MAC            string `json:"mac"`
	Created        bool   `json:"created"`
	HeartbeatCount uint64 `json:"heartbeat_count"`
	LastSeen       int64  `json:"last_seen"`
}

// DeviceResponse represents a cached device in API responses.
type DeviceResponse struct {
	MAC            string  `json:"mac"`
	DeviceID       string  `json:"device_id,omitempty"`
	IPAddress      string  `json:"ip_address,omitempty"`
	LastPort       *int    `json:"last_port,omitempty"`
	LastSeen       int64   `json:"last_seen"`
	HeartbeatCount uint64  `json:"heartbeat_count"`
	AgeSeconds     float64 `json:"age_seconds"`
}

// deviceToResponse converts a cached record to its API form.
func deviceToResponse(addr domain.HardwareAddr, state *domain.DeviceState, now time.Time) DeviceResponse {
	return DeviceResponse{
		MAC:            addr.String(),
		DeviceID:       state.DeviceID,
		IPAddress:      state.IPAddress,
		LastPort:       state.LastPort,
		LastSeen:       state.LastSeen,
		HeartbeatCount: state.HeartbeatCount,
		AgeSeconds:     state.Age(now).Seconds(),
	}
}

// ListDevicesResponse is the response body for GET /devices.
type ListDevicesResponse struct {
	Items []DeviceResponse `json:"items"`
	Total int              `json:"total"`
}

// RemoveDeviceResponse is the response body for DELETE /devices/{mac}.
type RemoveDeviceResponse struct {
	Removed bool            `json:"removed"`
	Device  *DeviceResponse `json:"device,omitempty"`
}

// PurgeRequest is the request body for POST /devices/purge.
// Unset criteria do not constrain; an entry is removed only when it
// matches every criterion that is set.
type PurgeRequest struct {
	MaxAgeSeconds  *int64   `json:"max_age_seconds,omitempty"`
	MinHeartbeats  *uint64  `json:"min_heartbeats,omitempty"`
	IPPatterns     []string `json:"ip_patterns,omitempty"`
	MACPatterns    []string `json:"mac_patterns,omitempty"`
	DevicePatterns []string `json:"device_patterns,omitempty"`
}

// toCriteria converts the wire form to service criteria.
func (p *PurgeRequest) toCriteria() *service.RemoveCriteria {
	criteria := &service.RemoveCriteria{
		MinHeartbeats:  p.MinHeartbeats,
		IPPatterns:     p.IPPatterns,
		MACPatterns:    p.MACPatterns,
		DevicePatterns: p.DevicePatterns,
	}
	if p.MaxAgeSeconds != nil {
		maxAge := time.Duration(*p.MaxAgeSeconds) * time.Second
		criteria.MaxAge = &maxAge
	}
	return criteria
}

// PurgeResponse is the response body for POST /devices/purge.
type PurgeResponse struct {
	Removed int `json:"removed"`
}

// StatsResponse is the response body for GET /stats.
type StatsResponse struct {
	Cache      service.CacheStats                 `json:"cache"`
	Operations map[string]metric.CategorySnapshot `json:"operations"`
	Aggregate  metric.CategorySnapshot            `json:"aggregate"`
}
