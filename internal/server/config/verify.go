package config

import (
	"errors"
	"net"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyCache(&cfg.Cache); err != nil {
		return err
	}
	if err := verifyMaintenance(&cfg.Maintenance); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return errors.New("server.http.addr is not a valid host:port: " + err.Error())
	}

	// TLS files come in pairs and must exist when configured
	cert, key := cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile
	if (cert == "") != (key == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, path := range []string{cert, key} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return errors.New("TLS file not readable: " + path)
		}
	}

	if cfg.HTTP.RateLimitRPS < 0 {
		return errors.New("server.http.rate_limit_rps must not be negative")
	}
	if cfg.HTTP.RateLimitRPS > 0 && cfg.HTTP.RateLimitBurst < 1 {
		return errors.New("server.http.rate_limit_burst must be at least 1 when rate limiting is on")
	}

	return nil
}

func verifyCache(cfg *CacheSection) error {
	if cfg.Shards < 0 {
		return errors.New("cache.shards must not be negative")
	}
	if cfg.Shards > 0 && cfg.Shards&(cfg.Shards-1) != 0 {
		return errors.New("cache.shards must be a power of 2")
	}
	if cfg.StaleThreshold < 0 {
		return errors.New("cache.stale_threshold must not be negative")
	}
	return nil
}

func verifyMaintenance(cfg *MaintenanceSection) error {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.Backend {
	case BackendThread, BackendTask:
	default:
		return errors.New("maintenance.backend must be \"thread\" or \"task\"")
	}
	if cfg.Interval <= 0 {
		return errors.New("maintenance.interval must be positive")
	}
	if cfg.MaxAge <= 0 {
		return errors.New("maintenance.max_age must be positive")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.New("log.level must be one of debug, info, warn, error")
	}
	switch cfg.Format {
	case "", "json", "text", "console":
	default:
		return errors.New("log.format must be json or text")
	}
	return nil
}
