// Package main provides the entry point for macpulse-cli.
//
// The CLI tool provides command-line access to a macpulse-server for:
//
//   - Device inspection (list, get, filtered listings)
//   - Device removal (single address or bulk purge by criteria)
//   - Cache and operation statistics (read, reset)
//   - Server health checks
//
// Usage:
//
//	macpulse-cli [command] [flags]
//	macpulse-cli devices list --ip 10.1.
//	macpulse-cli stats --reset
package main
