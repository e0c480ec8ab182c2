package metric

import (
	"sync"
	"sync/atomic"
	"time"
)

// categoryCounter holds the atomic counters for one category.
// Both fields are read and written independently, so a snapshot of a
// category is consistent per field, not across fields.
type categoryCounter struct {
	invocations  atomic.Uint64
	totalElapsed atomic.Int64 // nanoseconds
}

// CategorySnapshot is the read-only view of one category's counters.
type CategorySnapshot struct {
	Invocations  uint64        `json:"invocations"`
	TotalElapsed time.Duration `json:"total_elapsed"`
	Mean         time.Duration `json:"mean"`
}

// Counters tracks invocation counts and cumulative latency per named
// operation category. Categories are created on first use and never
// removed; Reset zeroes values but keeps names.
//
// Counters live for the whole process. A serving-layer restart reuses
// the same instance, so recorded history survives reconfiguration.
type Counters struct {
	mu         sync.RWMutex
	categories map[string]*categoryCounter
}

// NewCounters creates an empty counter set.
func NewCounters() *Counters {
	return &Counters{
		categories: make(map[string]*categoryCounter),
	}
}

// category returns the counter for a name, creating it on first use.
func (c *Counters) category(name string) *categoryCounter {
	c.mu.RLock()
	cat, ok := c.categories[name]
	c.mu.RUnlock()
	if ok {
		return cat
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cat, ok = c.categories[name]; ok {
		return cat
	}
	cat = &categoryCounter{}
	c.categories[name] = cat
	return cat
}

// Record atomically increments the category's invocation count and adds
// elapsed to its cumulative total.
func (c *Counters) Record(name string, elapsed time.Duration) {
	cat := c.category(name)
	cat.invocations.Add(1)
	cat.totalElapsed.Add(int64(elapsed))
}

// snapshotOne reads one category's current values.
func snapshotOne(cat *categoryCounter) CategorySnapshot {
	s := CategorySnapshot{
		Invocations:  cat.invocations.Load(),
		TotalElapsed: time.Duration(cat.totalElapsed.Load()),
	}
	if s.Invocations > 0 {
		s.Mean = s.TotalElapsed / time.Duration(s.Invocations)
	}
	return s
}

// Snapshot returns the current values of every category. Each category
// is individually consistent; the map as a whole is not a transactional
// cross-category snapshot.
func (c *Counters) Snapshot() map[string]CategorySnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]CategorySnapshot, len(c.categories))
	for name, cat := range c.categories {
		out[name] = snapshotOne(cat)
	}
	return out
}

// Reset zeroes every category's counters without removing category names.
func (c *Counters) Reset() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cat := range c.categories {
		cat.invocations.Store(0)
		cat.totalElapsed.Store(0)
	}
}

// SnapshotAndReset returns the current values and zeroes the counters
// in one pass. Records racing with the call land in either the returned
// snapshot or the fresh window, never both.
func (c *Counters) SnapshotAndReset() map[string]CategorySnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]CategorySnapshot, len(c.categories))
	for name, cat := range c.categories {
		s := CategorySnapshot{
			Invocations:  cat.invocations.Swap(0),
			TotalElapsed: time.Duration(cat.totalElapsed.Swap(0)),
		}
		if s.Invocations > 0 {
			s.Mean = s.TotalElapsed / time.Duration(s.Invocations)
		}
		out[name] = s
	}
	return out
}

// Aggregate sums all categories into one snapshot.
func (c *Counters) Aggregate() CategorySnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total CategorySnapshot
	for _, cat := range c.categories {
		s := snapshotOne(cat)
		total.Invocations += s.Invocations
		total.TotalElapsed += s.TotalElapsed
	}
	if total.Invocations > 0 {
		total.Mean = total.TotalElapsed / time.Duration(total.Invocations)
	}
	return total
}

// Categories returns the known category names, in no particular order.
func (c *Counters) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	return names
}
