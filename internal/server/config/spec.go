package config

import "time"

// ServerConfig is the root configuration for macpulse-server.
type ServerConfig struct {
	Server      ServerSection      `koanf:"server"`
	Cache       CacheSection       `koanf:"cache"`
	Maintenance MaintenanceSection `koanf:"maintenance"`
	Log         LogSection         `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// ReadTimeout and WriteTimeout bound a single request exchange.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds the graceful drain on stop.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitRPS is the per-client request rate limit (0 disables).
	RateLimitRPS float64 `koanf:"rate_limit_rps"`

	// RateLimitBurst is the burst size of the per-client limiter.
	RateLimitBurst int `koanf:"rate_limit_burst"`
}

// CacheSection configures the device-state cache.
type CacheSection struct {
	// Shards is the shard count of the concurrent map.
	// Must be a power of 2; 0 uses the built-in default.
	Shards int `koanf:"shards"`

	// StaleThreshold is the age at which an entry counts as stale
	// in statistics roll-ups.
	StaleThreshold time.Duration `koanf:"stale_threshold"`
}

// Maintenance backend names.
const (
	BackendThread = "thread"
	BackendTask   = "task"
)

// MaintenanceSection configures the background stale-entry sweeper.
type MaintenanceSection struct {
	// Enabled turns the sweeper on.
	Enabled bool `koanf:"enabled"`

	// Backend selects the execution backend: "thread" runs the sweep
	// loop on a dedicated goroutine, "task" runs it cooperatively
	// under the process context.
	Backend string `koanf:"backend"`

	// Interval is the pause between sweeps.
	Interval time.Duration `koanf:"interval"`

	// MaxAge is the entry age past which a sweep evicts it.
	MaxAge time.Duration `koanf:"max_age"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
