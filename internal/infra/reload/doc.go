// Package reload coordinates configuration reloads for the serving
// layer.
//
// A Coordinator watches the configuration file and, on change, loads
// and verifies the new configuration, stops the current serving
// generation and starts a fresh one built from the new settings. The
// device cache and operation counters live outside the coordinator,
// so cached state survives every reload. A reload that fails to load,
// verify or start leaves the running generation untouched.
package reload
