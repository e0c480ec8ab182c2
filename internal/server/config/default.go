package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultRateLimitRPS    = 100.0
	DefaultRateLimitBurst  = 200

	DefaultCacheShards    = 32
	DefaultStaleThreshold = 300 * time.Second

	DefaultMaintenanceBackend  = BackendThread
	DefaultMaintenanceInterval = 60 * time.Second
	DefaultMaintenanceMaxAge   = 300 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
				RateLimitRPS:    DefaultRateLimitRPS,
				RateLimitBurst:  DefaultRateLimitBurst,
			},
		},
		Cache: CacheSection{
			Shards:         DefaultCacheShards,
			StaleThreshold: DefaultStaleThreshold,
		},
		Maintenance: MaintenanceSection{
			Enabled:  true,
			Backend:  DefaultMaintenanceBackend,
			Interval: DefaultMaintenanceInterval,
			MaxAge:   DefaultMaintenanceMaxAge,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
