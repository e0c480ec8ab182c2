// Package httpserver provides the HTTP/HTTPS server for macpulse.
//
// It uses the Go standard library net/http for implementation,
// providing endpoints for heartbeat ingestion, device inspection,
// cache statistics and Prometheus metrics.
package httpserver
