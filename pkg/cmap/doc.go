// Package cmap provides a concurrent map implementation for macpulse.
//
// This package implements a sharded concurrent map optimized for
// high-throughput device-state storage with the following features:
//
//   - Sharding: Configurable shard count for parallelism
//   - Fine-grained Locking: Per-shard RWMutex for minimal contention
//   - In-place Mutation: Atomic per-key read-modify-write via Mutate
//   - Iteration: Safe iteration while holding read locks
//
// Usage:
//
//	m := cmap.New[string, *DeviceState]()
//	m.Set("key", state)
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has) use RLock,
// write operations (Set, Delete, Mutate) use Lock. Iteration locks one
// shard at a time, so a full traversal is not a point-in-time snapshot.
package cmap
