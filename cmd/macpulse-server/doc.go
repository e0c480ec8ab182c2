// Package main provides the entry point for macpulse-server.
//
// macpulse-server is the heartbeat collection daemon: it caches the
// last-known state of network devices keyed by hardware address,
// evicts stale entries in the background, and serves the state over
// an HTTP API.
package main
