// Package service provides domain services for macpulse.
//
// DeviceService is the sole mutation and query surface for cached device
// state: heartbeat ingestion, lookups, removals, bulk predicate operations,
// and statistics roll-up. Sweeper drives the periodic stale-entry eviction
// against the same service.
//
// Services are transport-agnostic: HTTP handlers and CLI commands adapt
// requests into the service types defined here.
package service
