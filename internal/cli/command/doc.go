// Package command provides CLI command definitions for macpulse-cli.
//
// It uses urfave/cli/v2 for command parsing. Every command talks to a
// running macpulse-server over its HTTP API.
package command
