// Package metric provides operation counters and Prometheus exposition
// for macpulse.
//
// This package implements metrics collection and exposition:
//
//   - counters.go: per-category atomic operation counters
//   - prometheus.go: Prometheus collector and HTTP handler
//
// Counters track invocation counts and cumulative latency per named
// operation category, with snapshot-and-reset semantics. The Prometheus
// collector reads the same counters plus cache occupancy, so both the
// JSON stats surface and /metrics report from one source.
package metric
