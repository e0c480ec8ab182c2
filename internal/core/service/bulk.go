package service

import (
	"strings"
	"time"

	"github.com/yndnr/macpulse-go/internal/core/domain"
)

// Predicate decides whether a bulk operation applies to an entry.
// Predicates must be side-effect-free and must not retain the state.
type Predicate func(addr domain.HardwareAddr, state *domain.DeviceState) bool

// ============================================================================
// Bulk Traversal
// ============================================================================

// Snapshot materializes all entries into a slice. Ordering is
// unspecified; the result reflects each entry at the moment it was
// visited, not a point-in-time view of the whole cache.
func (s *DeviceService) Snapshot() []domain.DeviceRecord {
	start := s.now()
	defer s.record(CategoryCollect, start)

	return s.repo.CollectIf(func(domain.HardwareAddr, *domain.DeviceState) bool {
		return true
	})
}

// ForEach invokes a read-only visitor once per entry. The visitor
// receives clones; the store is never mutated.
func (s *DeviceService) ForEach(visit func(addr domain.HardwareAddr, state *domain.DeviceState)) {
	s.repo.Scan(func(addr domain.HardwareAddr, state *domain.DeviceState) bool {
		visit(addr, state)
		return true
	})
}

// UpdateAll applies a mutating callback to every entry exactly once.
// Returning keep=false removes the entry in the same pass, with no
// transient missing or double-counted entry visible to a concurrent
// scan. Returns the number of entries visited.
func (s *DeviceService) UpdateAll(apply func(addr domain.HardwareAddr, state *domain.DeviceState) (keep bool)) int {
	return s.repo.UpdateAll(apply)
}

// CollectMatching returns all entries the predicate accepts without
// mutating the cache.
func (s *DeviceService) CollectMatching(pred Predicate) []domain.DeviceRecord {
	start := s.now()
	defer s.record(CategoryCollect, start)

	return s.repo.CollectIf(pred)
}

// RemoveMatching deletes all entries the predicate accepts and returns
// the number removed.
func (s *DeviceService) RemoveMatching(pred Predicate) int {
	start := s.now()
	defer s.record(CategoryPurge, start)

	return s.repo.RemoveIf(pred)
}

// ============================================================================
// Predicate Helpers
// ============================================================================

// MatchIPContains matches entries whose IP contains the substring.
func MatchIPContains(sub string) Predicate {
	return func(_ domain.HardwareAddr, state *domain.DeviceState) bool {
		return strings.Contains(state.IPAddress, sub)
	}
}

// MatchDeviceIDContains matches entries whose device ID contains the substring.
func MatchDeviceIDContains(sub string) Predicate {
	return func(_ domain.HardwareAddr, state *domain.DeviceState) bool {
		return strings.Contains(state.DeviceID, sub)
	}
}

// MatchMinHeartbeats matches entries with at least min heartbeats.
func MatchMinHeartbeats(min uint64) Predicate {
	return func(_ domain.HardwareAddr, state *domain.DeviceState) bool {
		return state.HeartbeatCount >= min
	}
}

// MatchOlderThan matches entries whose age exceeds maxAge at the given time.
func MatchOlderThan(now time.Time, maxAge time.Duration) Predicate {
	return func(_ domain.HardwareAddr, state *domain.DeviceState) bool {
		return state.Age(now) > maxAge
	}
}

// ============================================================================
// Advanced Removal
// ============================================================================

// RemoveCriteria describes a conjunctive removal filter. Unset fields
// are treated as always-true. Pattern lists match when the field
// contains any pattern in the list (OR within a field, AND across
// fields).
type RemoveCriteria struct {
	MaxAge         *time.Duration // Remove entries older than this
	MinHeartbeats  *uint64        // Remove entries with at least this many heartbeats
	IPPatterns     []string       // Substrings matched against the IP
	MACPatterns    []string       // Substrings matched against the canonical address form
	DevicePatterns []string       // Substrings matched against the device ID
}

// isEmpty reports whether no criterion is set.
func (c *RemoveCriteria) isEmpty() bool {
	return c.MaxAge == nil && c.MinHeartbeats == nil &&
		len(c.IPPatterns) == 0 && len(c.MACPatterns) == 0 && len(c.DevicePatterns) == 0
}

// containsAny reports whether value contains at least one of the patterns.
func containsAny(value string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(value, p) {
			return true
		}
	}
	return false
}

// RemoveAdvanced deletes entries matching every supplied criterion and
// returns the number removed. An empty criteria set removes nothing,
// so an accidental bare call cannot wipe the cache.
func (s *DeviceService) RemoveAdvanced(criteria *RemoveCriteria) int {
	start := s.now()
	defer s.record(CategoryPurge, start)

	if criteria == nil || criteria.isEmpty() {
		return 0
	}

	now := s.now()
	return s.repo.RemoveIf(func(addr domain.HardwareAddr, state *domain.DeviceState) bool {
		if criteria.MaxAge != nil && state.Age(now) <= *criteria.MaxAge {
			return false
		}
		if criteria.MinHeartbeats != nil && state.HeartbeatCount < *criteria.MinHeartbeats {
			return false
		}
		if len(criteria.IPPatterns) > 0 && !containsAny(state.IPAddress, criteria.IPPatterns) {
			return false
		}
		if len(criteria.MACPatterns) > 0 && !containsAny(addr.String(), criteria.MACPatterns) {
			return false
		}
		if len(criteria.DevicePatterns) > 0 && !containsAny(state.DeviceID, criteria.DevicePatterns) {
			return false
		}
		return true
	})
}

// ============================================================================
// Statistics Roll-Up
// ============================================================================

// CacheStats is the aggregate view of the cache computed by one full scan.
type CacheStats struct {
	TotalEntries    int           `json:"total_entries"`
	ActiveEntries   int           `json:"active_entries"`
	StaleEntries    int           `json:"stale_entries"`
	TotalHeartbeats uint64        `json:"total_heartbeats"`
	OldestEntryAge  time.Duration `json:"oldest_entry_age"`
	NewestEntryAge  time.Duration `json:"newest_entry_age"`
	StaleThreshold  time.Duration `json:"stale_threshold"`
}

// Stats computes cache statistics using the default stale threshold.
func (s *DeviceService) Stats() CacheStats {
	return s.StatsWithThreshold(DefaultStaleThreshold)
}

// StatsWithThreshold computes cache statistics with a caller-supplied
// stale threshold. Entries at least threshold old count as stale; the
// rest are active.
func (s *DeviceService) StatsWithThreshold(threshold time.Duration) CacheStats {
	start := s.now()
	defer s.record(CategoryStats, start)

	now := s.now()
	stats := CacheStats{StaleThreshold: threshold}

	first := true
	s.repo.Scan(func(_ domain.HardwareAddr, state *domain.DeviceState) bool {
		age := state.Age(now)

		stats.TotalEntries++
		stats.TotalHeartbeats += state.HeartbeatCount
		if state.IsStale(now, threshold) {
			stats.StaleEntries++
		} else {
			stats.ActiveEntries++
		}

		if first {
			stats.OldestEntryAge = age
			stats.NewestEntryAge = age
			first = false
			return true
		}
		if age > stats.OldestEntryAge {
			stats.OldestEntryAge = age
		}
		if age < stats.NewestEntryAge {
			stats.NewestEntryAge = age
		}
		return true
	})

	return stats
}
