// Package cmap provides a concurrent-safe sharded map.
package cmap

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration.
// Note: This acquires locks shard by shard, so the view may not be consistent
// across the whole map; each visited pair is read atomically.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, shard := range m.shards {
		shard.mu.RLock()
		for k, v := range shard.items {
			if !fn(k, v) {
				shard.mu.RUnlock()
				return
			}
		}
		shard.mu.RUnlock()
	}
}

// Keys returns all keys.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Count())
	m.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns all values.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Count())
	m.Range(func(_ K, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// Entry is one key-value pair from an iteration.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Items returns all key-value pairs as a slice.
func (m *Map[K, V]) Items() []Entry[K, V] {
	items := make([]Entry[K, V], 0, m.Count())
	m.Range(func(key K, value V) bool {
		items = append(items, Entry[K, V]{Key: key, Value: value})
		return true
	})
	return items
}

// GetOrSet returns the existing value for a key, or sets and returns the given value if absent.
func (m *Map[K, V]) GetOrSet(key K, value V) (V, bool) {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if existing, ok := shard.items[key]; ok {
		return existing, true
	}

	shard.items[key] = value
	return value, false
}

// Upsert atomically updates or inserts a value.
// The callback receives the existing value (if any) and whether the key exists.
// Returns the new value.
func (m *Map[K, V]) Upsert(key K, value V, fn func(existingValue V, exists bool) V) V {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, exists := shard.items[key]
	if exists {
		value = fn(existing, true)
	} else {
		value = fn(value, false)
	}
	shard.items[key] = value
	return value
}

// Mutate applies fn to the value stored under key, if present, and stores
// the result. Returns whether a value existed. The whole read-modify-write
// happens under the shard lock, so concurrent readers of that key never
// observe a partially-applied mutation.
func (m *Map[K, V]) Mutate(key K, fn func(value V) V) bool {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, exists := shard.items[key]
	if !exists {
		return false
	}
	shard.items[key] = fn(existing)
	return true
}

// UpdateAll applies fn to every entry, storing the returned value.
// If fn reports keep=false the entry is removed in the same locked pass,
// so a concurrent Range never sees the entry half-removed. Each entry is
// visited at most once. Returns the number of entries visited.
func (m *Map[K, V]) UpdateAll(fn func(key K, value V) (V, bool)) int {
	visited := 0
	for _, shard := range m.shards {
		shard.mu.Lock()
		for k, v := range shard.items {
			newValue, keep := fn(k, v)
			if keep {
				shard.items[k] = newValue
			} else {
				delete(shard.items, k)
			}
			visited++
		}
		shard.mu.Unlock()
	}
	return visited
}

// DeleteIf removes every entry for which pred holds and returns the count
// removed. Deletion happens shard by shard under the shard's write lock.
func (m *Map[K, V]) DeleteIf(pred func(key K, value V) bool) int {
	removed := 0
	for _, shard := range m.shards {
		shard.mu.Lock()
		for k, v := range shard.items {
			if pred(k, v) {
				delete(shard.items, k)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}
