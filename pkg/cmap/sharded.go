// Package cmap provides a concurrent-safe sharded map.
//
// It uses sharding to reduce lock contention, providing better
// performance than sync.Map for high-concurrency workloads.
package cmap

import (
	"fmt"
	"hash/maphash"
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Hasher maps a key to a 64-bit hash used for shard selection.
type Hasher[K comparable] func(key K) uint64

// Map is a concurrent-safe sharded map.
type Map[K comparable, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	hash      Hasher[K]
}

type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// Option configures a Map.
type Option[K comparable, V any] func(*Map[K, V])

// WithShards sets the shard count. shardCount must be a power of 2;
// invalid values fall back to DefaultShardCount.
func WithShards[K comparable, V any](shardCount int) Option[K, V] {
	return func(m *Map[K, V]) {
		if shardCount > 0 && shardCount&(shardCount-1) == 0 {
			m.shards = make([]*shard[K, V], shardCount)
			m.shardMask = uint64(shardCount - 1)
		}
	}
}

// WithKeyBytes sets a murmur3-based hasher over the key's byte form.
// Keys with a cheap byte representation (addresses, fixed-size IDs)
// should prefer this over the default maphash path.
func WithKeyBytes[K comparable, V any](keyBytes func(K) []byte) Option[K, V] {
	return func(m *Map[K, V]) {
		m.hash = func(key K) uint64 {
			return murmur3.Sum64(keyBytes(key))
		}
	}
}

// New creates a new sharded map.
func New[K comparable, V any](opts ...Option[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		shards:    make([]*shard[K, V], DefaultShardCount),
		shardMask: DefaultShardCount - 1,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.hash == nil {
		seed := maphash.MakeSeed()
		m.hash = func(key K) uint64 {
			var h maphash.Hash
			h.SetSeed(seed)
			h.WriteString(fmt.Sprintf("%v", key))
			return h.Sum64()
		}
	}

	for i := range m.shards {
		m.shards[i] = &shard[K, V]{
			items: make(map[K]V),
		}
	}

	return m
}

// getShard returns the shard owning a key.
func (m *Map[K, V]) getShard(key K) *shard[K, V] {
	return m.shards[m.hash(key)&m.shardMask]
}

// Get retrieves a value by key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	shard := m.getShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	val, ok := shard.items[key]
	return val, ok
}

// Set stores a key-value pair, overwriting any existing value.
func (m *Map[K, V]) Set(key K, value V) {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.items[key] = value
}

// Delete removes a key.
func (m *Map[K, V]) Delete(key K) {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.items, key)
}

// Pop removes a key and returns its value.
// Returns the value and true if the key existed, zero value and false otherwise.
func (m *Map[K, V]) Pop(key K) (V, bool) {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	val, ok := shard.items[key]
	if ok {
		delete(shard.items, key)
	}
	return val, ok
}

// Has checks if a key exists.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Count returns the total number of items.
// The result may be stale relative to concurrent mutation by the time
// it returns.
func (m *Map[K, V]) Count() int {
	count := 0
	for _, shard := range m.shards {
		shard.mu.RLock()
		count += len(shard.items)
		shard.mu.RUnlock()
	}
	return count
}

// Clear removes all items.
func (m *Map[K, V]) Clear() {
	for _, shard := range m.shards {
		shard.mu.Lock()
		shard.items = make(map[K]V)
		shard.mu.Unlock()
	}
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}

// ShardStats holds statistics about one shard.
type ShardStats struct {
	Index int
	Count int
}

// Stats returns statistics about all shards.
func (m *Map[K, V]) Stats() []ShardStats {
	stats := make([]ShardStats, len(m.shards))
	for i, shard := range m.shards {
		shard.mu.RLock()
		stats[i] = ShardStats{
			Index: i,
			Count: len(shard.items),
		}
		shard.mu.RUnlock()
	}
	return stats
}
