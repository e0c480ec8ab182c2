package service

import (
	"time"

	"github.com/yndnr/macpulse-go/internal/core/domain"
)

// Operation categories recorded against the latency counters.
const (
	CategoryHeartbeat = "heartbeat"
	CategoryGet       = "device_get"
	CategoryRemove    = "device_remove"
	CategoryCollect   = "device_collect"
	CategoryPurge     = "device_purge"
	CategoryStats     = "cache_stats"
	CategorySweep     = "maintenance_sweep"
)

// DefaultStaleThreshold is the age at which an entry counts as stale
// in statistics roll-ups.
const DefaultStaleThreshold = 300 * time.Second

// DeviceRepository defines the storage interface for device-state operations.
type DeviceRepository interface {
	// Get retrieves a clone of the state for an address.
	Get(addr domain.HardwareAddr) (*domain.DeviceState, bool)

	// Upsert atomically creates or updates the entry for an address.
	Upsert(addr domain.HardwareAddr, apply func(existing *domain.DeviceState) *domain.DeviceState) *domain.DeviceState

	// Remove deletes the entry and returns the removed state.
	Remove(addr domain.HardwareAddr) (*domain.DeviceState, bool)

	// Scan iterates over clones of all entries.
	Scan(fn func(domain.HardwareAddr, *domain.DeviceState) bool)

	// CollectIf returns records for all entries matching the predicate.
	CollectIf(pred func(domain.HardwareAddr, *domain.DeviceState) bool) []domain.DeviceRecord

	// RemoveIf deletes all entries matching the predicate.
	RemoveIf(pred func(domain.HardwareAddr, *domain.DeviceState) bool) int

	// UpdateAll visits every entry once, mutating or dropping it in place.
	UpdateAll(apply func(domain.HardwareAddr, *domain.DeviceState) (keep bool)) int

	// Len returns the number of cached entries.
	Len() int
}

// Recorder receives per-category operation latencies.
type Recorder interface {
	Record(category string, elapsed time.Duration)
}

// DeviceService handles device-state cache operations.
//
// All operations that take an address string validate it before touching
// storage; malformed addresses fail fast and never mutate the cache.
type DeviceService struct {
	repo     DeviceRepository
	recorder Recorder
	now      func() time.Time
}

// ServiceOption configures the DeviceService.
type ServiceOption func(*DeviceService)

// WithRecorder sets the latency recorder. Nil disables recording.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *DeviceService) {
		s.recorder = r
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *DeviceService) {
		s.now = now
	}
}

// NewDeviceService creates a new DeviceService.
func NewDeviceService(repo DeviceRepository, opts ...ServiceOption) *DeviceService {
	s := &DeviceService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record reports an operation latency when a recorder is configured.
// Elapsed time comes from the service clock so an injected clock keeps
// latencies consistent with the timestamps it produces.
func (s *DeviceService) record(category string, start time.Time) {
	if s.recorder != nil {
		s.recorder.Record(category, s.now().Sub(start))
	}
}

// ============================================================================
// Heartbeat Ingestion
// ============================================================================

// HeartbeatRequest contains parameters for heartbeat ingestion.
type HeartbeatRequest struct {
	DeviceID string // Caller-assigned label, not unique
	MAC      string // Required, colon-hex hardware address
	IP       string // Source address of the heartbeat
	LastPort *int   // Optional service port
	LastSeen int64  // Optional explicit timestamp (Unix MS); 0 means "now"
}

// HeartbeatResponse contains the state after ingestion.
type HeartbeatResponse struct {
	Addr    domain.HardwareAddr
	State   *domain.DeviceState
	Created bool // True when this heartbeat created the entry
}

// Heartbeat ingests a device heartbeat: it creates a new entry with
// heartbeat count 0, or refreshes an existing one and increments its
// count. The whole create-or-increment happens atomically per key, so
// concurrent heartbeats for the same address never lose an update.
func (s *DeviceService) Heartbeat(req *HeartbeatRequest) (*HeartbeatResponse, error) {
	start := s.now()
	defer s.record(CategoryHeartbeat, start)

	if req.MAC == "" {
		return nil, domain.ErrMissingArgument.WithDetails("mac is required")
	}

	addr, err := domain.ParseHardwareAddr(req.MAC)
	if err != nil {
		return nil, err
	}

	candidate := &domain.DeviceState{
		DeviceID:  req.DeviceID,
		IPAddress: req.IP,
		LastPort:  req.LastPort,
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	lastSeen := req.LastSeen
	if lastSeen == 0 {
		lastSeen = start.UnixMilli()
	}

	created := false
	state := s.repo.Upsert(addr, func(existing *domain.DeviceState) *domain.DeviceState {
		if existing == nil {
			created = true
			return &domain.DeviceState{
				DeviceID:       req.DeviceID,
				IPAddress:      req.IP,
				LastPort:       req.LastPort,
				LastSeen:       lastSeen,
				HeartbeatCount: 0,
			}
		}
		existing.DeviceID = req.DeviceID
		existing.IPAddress = req.IP
		existing.LastPort = req.LastPort
		existing.LastSeen = lastSeen
		existing.HeartbeatCount++
		return existing
	})

	return &HeartbeatResponse{Addr: addr, State: state, Created: created}, nil
}

// ============================================================================
// Point Queries
// ============================================================================

// Get retrieves the cached state for an address string.
// Absence is not an error: a valid address with no entry returns (nil, nil).
func (s *DeviceService) Get(mac string) (*domain.DeviceState, error) {
	start := s.now()
	defer s.record(CategoryGet, start)

	if mac == "" {
		return nil, domain.ErrMissingArgument.WithDetails("mac is required")
	}

	addr, err := domain.ParseHardwareAddr(mac)
	if err != nil {
		return nil, err
	}

	state, ok := s.repo.Get(addr)
	if !ok {
		return nil, nil
	}
	return state, nil
}

// Remove deletes the entry for an address string and returns the prior
// state, or nil when the entry was absent.
func (s *DeviceService) Remove(mac string) (*domain.DeviceState, error) {
	start := s.now()
	defer s.record(CategoryRemove, start)

	if mac == "" {
		return nil, domain.ErrMissingArgument.WithDetails("mac is required")
	}

	addr, err := domain.ParseHardwareAddr(mac)
	if err != nil {
		return nil, err
	}

	state, ok := s.repo.Remove(addr)
	if !ok {
		return nil, nil
	}
	return state, nil
}

// Len returns the current entry count. The value may be stale relative
// to concurrent mutation by the time it returns.
func (s *DeviceService) Len() int {
	return s.repo.Len()
}
