// Package memory provides in-memory device-state storage for macpulse.
//
// It implements the primary storage interface using a sharded concurrent
// map keyed by hardware address, with fine-grained locking for high
// heartbeat throughput.
//
// Features:
//
//   - Sharded Storage: Entries distributed across shards for parallelism
//   - Per-Key Atomicity: Read-modify-write of a single entry under one lock
//   - Bulk Traversal: Predicate-driven collect, update, and removal passes
//
// Thread Safety:
//
// All operations are thread-safe through per-shard locking. Bulk
// traversals lock one shard at a time, so they observe each entry exactly
// once but are not point-in-time snapshots of the whole cache.
package memory
