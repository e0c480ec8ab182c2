// Package handler provides HTTP request handlers for macpulse.
//
// This package implements the HTTP API endpoints for heartbeat
// ingestion, device inspection and removal, bulk purge, cache
// statistics and health reporting.
package handler
