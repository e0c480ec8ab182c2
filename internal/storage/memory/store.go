package memory

import (
	"github.com/yndnr/macpulse-go/internal/core/domain"
	"github.com/yndnr/macpulse-go/pkg/cmap"
)

// DeviceStore provides in-memory device-state storage keyed by
// hardware address.
type DeviceStore struct {
	entries *cmap.Map[domain.HardwareAddr, *domain.DeviceState]
}

// Option configures the DeviceStore.
type Option func(*options)

type options struct {
	shards int
}

// WithShards sets the shard count of the underlying map.
// Must be a power of 2; invalid values fall back to the default.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// New creates a new in-memory device store.
func New(opts ...Option) *DeviceStore {
	o := &options{shards: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(o)
	}

	return &DeviceStore{
		entries: cmap.New(
			cmap.WithShards[domain.HardwareAddr, *domain.DeviceState](o.shards),
			cmap.WithKeyBytes[domain.HardwareAddr, *domain.DeviceState](
				func(addr domain.HardwareAddr) []byte { return addr.Bytes() },
			),
		),
	}
}

// Get retrieves the state for an address.
// The returned state is a clone; mutating it does not affect the store.
func (s *DeviceStore) Get(addr domain.HardwareAddr) (*domain.DeviceState, bool) {
	state, ok := s.entries.Get(addr)
	if !ok {
		return nil, false
	}
	return state.Clone(), true
}

// Has reports whether an entry exists for the address.
func (s *DeviceStore) Has(addr domain.HardwareAddr) bool {
	return s.entries.Has(addr)
}

// Put stores the state for an address, replacing any existing entry.
// The store keeps its own clone.
func (s *DeviceStore) Put(addr domain.HardwareAddr, state *domain.DeviceState) {
	s.entries.Set(addr, state.Clone())
}

// Upsert atomically creates or updates the entry for an address.
// The apply function receives a clone of the existing state (nil when the
// entry is new) and returns the state to store. The whole read-modify-write
// happens under a single shard lock, so two concurrent heartbeats for the
// same address never lose an update.
func (s *DeviceStore) Upsert(addr domain.HardwareAddr, apply func(existing *domain.DeviceState) *domain.DeviceState) *domain.DeviceState {
	result := s.entries.Upsert(addr, nil, func(existing *domain.DeviceState, exists bool) *domain.DeviceState {
		if !exists {
			return apply(nil)
		}
		return apply(existing.Clone())
	})
	return result.Clone()
}

// Update atomically mutates an existing entry in place.
// Returns false without calling mutate when the entry is absent.
func (s *DeviceStore) Update(addr domain.HardwareAddr, mutate func(*domain.DeviceState)) bool {
	return s.entries.Mutate(addr, func(state *domain.DeviceState) *domain.DeviceState {
		clone := state.Clone()
		mutate(clone)
		return clone
	})
}

// Remove deletes the entry for an address and returns the removed state.
func (s *DeviceStore) Remove(addr domain.HardwareAddr) (*domain.DeviceState, bool) {
	return s.entries.Pop(addr)
}

// Scan iterates over all entries. The callback receives a clone of each
// state. Return false from the callback to stop iteration.
func (s *DeviceStore) Scan(fn func(domain.HardwareAddr, *domain.DeviceState) bool) {
	s.entries.Range(func(addr domain.HardwareAddr, state *domain.DeviceState) bool {
		return fn(addr, state.Clone())
	})
}

// CollectIf returns records for all entries matching the predicate.
// The predicate receives the live state under the shard lock and must not
// mutate or retain it; returned records hold clones.
func (s *DeviceStore) CollectIf(pred func(domain.HardwareAddr, *domain.DeviceState) bool) []domain.DeviceRecord {
	var matched []domain.DeviceRecord
	s.entries.Range(func(addr domain.HardwareAddr, state *domain.DeviceState) bool {
		if pred(addr, state) {
			matched = append(matched, domain.DeviceRecord{Addr: addr, State: *state.Clone()})
		}
		return true
	})
	return matched
}

// RemoveIf deletes all entries matching the predicate and returns the
// number removed. The predicate receives the live state under the shard
// lock and must not mutate or retain it.
func (s *DeviceStore) RemoveIf(pred func(domain.HardwareAddr, *domain.DeviceState) bool) int {
	return s.entries.DeleteIf(pred)
}

// UpdateAll visits every entry exactly once, applying the mutation to a
// clone under the shard lock. Returning keep=false drops the entry in the
// same locked pass. Returns the number of entries visited.
func (s *DeviceStore) UpdateAll(apply func(domain.HardwareAddr, *domain.DeviceState) (keep bool)) int {
	return s.entries.UpdateAll(func(addr domain.HardwareAddr, state *domain.DeviceState) (*domain.DeviceState, bool) {
		clone := state.Clone()
		keep := apply(addr, clone)
		return clone, keep
	})
}

// All returns clones of all entries as records.
func (s *DeviceStore) All() []domain.DeviceRecord {
	records := make([]domain.DeviceRecord, 0, s.entries.Count())
	s.entries.Range(func(addr domain.HardwareAddr, state *domain.DeviceState) bool {
		records = append(records, domain.DeviceRecord{Addr: addr, State: *state.Clone()})
		return true
	})
	return records
}

// Len returns the number of cached entries.
func (s *DeviceStore) Len() int {
	return s.entries.Count()
}

// Clear removes all entries.
func (s *DeviceStore) Clear() {
	s.entries.Clear()
}

// ShardStats returns per-shard occupancy, for diagnostics.
func (s *DeviceStore) ShardStats() []cmap.ShardStats {
	return s.entries.Stats()
}
