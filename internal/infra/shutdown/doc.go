// Package shutdown provides graceful shutdown for macpulse.
//
// This package handles process termination:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Programmatic triggering (idempotent)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration, executed in reverse order
package shutdown
