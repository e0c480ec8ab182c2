// Package connection provides the HTTP client macpulse-cli uses to
// talk to a macpulse-server instance.
package connection
