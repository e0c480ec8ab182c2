package domain

import "time"

// Device field constraints.
const (
	MaxDeviceIDLength  = 128
	MaxIPAddressLength = 45 // IPv6 max length
)

// DeviceState is the cached heartbeat record for a single device.
// Entries are keyed by HardwareAddr in the device cache; the address
// itself is not repeated here.
type DeviceState struct {
	// DeviceID is the reporting device's logical identifier.
	DeviceID string `json:"device_id"`

	// IPAddress is the source IP observed on the most recent heartbeat.
	IPAddress string `json:"ip_address"`

	// LastPort is the service port reported on the most recent heartbeat.
	// Nil when the device has never reported a port.
	LastPort *int `json:"last_port,omitempty"`

	// LastSeen is the timestamp of the most recent heartbeat (Unix milliseconds).
	LastSeen int64 `json:"last_seen"`

	// HeartbeatCount is the number of repeat heartbeats observed after
	// the entry was first created. A freshly created entry has count 0;
	// each subsequent heartbeat for the same address increments it.
	HeartbeatCount uint64 `json:"heartbeat_count"`
}

// Age returns the time elapsed since the last heartbeat, relative to now.
// Returns 0 when LastSeen is in the future (clock skew between callers).
func (d *DeviceState) Age(now time.Time) time.Duration {
	elapsed := now.UnixMilli() - d.LastSeen
	if elapsed < 0 {
		return 0
	}
	return time.Duration(elapsed) * time.Millisecond
}

// IsStale reports whether the entry's age meets or exceeds maxAge.
func (d *DeviceState) IsStale(now time.Time, maxAge time.Duration) bool {
	return d.Age(now) >= maxAge
}

// LastSeenTime returns LastSeen as time.Time.
func (d *DeviceState) LastSeenTime() time.Time {
	return time.UnixMilli(d.LastSeen)
}

// Clone creates a deep copy of the device state.
func (d *DeviceState) Clone() *DeviceState {
	clone := *d
	if d.LastPort != nil {
		port := *d.LastPort
		clone.LastPort = &port
	}
	return &clone
}

// Validate validates the device state fields against constraints.
// Returns a DomainError with code MP-ARG-1001 if validation fails.
func (d *DeviceState) Validate() error {
	if len(d.DeviceID) > MaxDeviceIDLength {
		return ErrInvalidArgument.WithDetails("device_id exceeds 128 characters")
	}
	if len(d.IPAddress) > MaxIPAddressLength {
		return ErrInvalidArgument.WithDetails("ip_address exceeds 45 characters")
	}
	if d.LastPort != nil && (*d.LastPort < 0 || *d.LastPort > 65535) {
		return ErrInvalidArgument.WithDetails("last_port out of range")
	}
	return nil
}

// DeviceRecord pairs a hardware address with its cached state. Bulk
// operations return records so callers keep the key alongside the entry.
type DeviceRecord struct {
	Addr  HardwareAddr `json:"mac"`
	State DeviceState  `json:"state"`
}
