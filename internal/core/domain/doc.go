// Package domain defines the core domain models for macpulse.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling: the hardware address that
// keys the device cache, the per-device state record, and the
// structured error taxonomy shared by all layers.
package domain
