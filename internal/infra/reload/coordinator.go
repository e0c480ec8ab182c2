package reload

import (
	"context"
	"sync"
	"time"

	"github.com/yndnr/macpulse-go/internal/core/domain"
	"github.com/yndnr/macpulse-go/internal/infra/confloader"
	"github.com/yndnr/macpulse-go/internal/server/config"
	"github.com/yndnr/macpulse-go/internal/telemetry/logger"
)

// DefaultStopTimeout bounds how long a reload waits for the previous
// generation to drain before starting the next one.
const DefaultStopTimeout = 15 * time.Second

// Runnable is one serving generation. Start must return once the
// generation is up (serving in the background); Stop drains it.
type Runnable interface {
	Start() error
	Stop(ctx context.Context) error
}

// Factory builds a serving generation from a verified configuration.
type Factory func(cfg *config.ServerConfig) (Runnable, error)

// Coordinator swaps serving generations when the configuration file
// changes.
type Coordinator struct {
	configFile  string
	factory     Factory
	log         logger.Logger
	stopTimeout time.Duration

	mu         sync.Mutex
	current    Runnable
	currentCfg *config.ServerConfig
	generation int
	watcher    *confloader.Watcher
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(log logger.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.log = log
	}
}

// WithStopTimeout bounds the drain of the outgoing generation.
func WithStopTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.stopTimeout = d
	}
}

// NewCoordinator creates a coordinator for the given configuration
// file. The factory is invoked once per generation.
func NewCoordinator(configFile string, factory Factory, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		configFile:  configFile,
		factory:     factory,
		log:         logger.Default(),
		stopTimeout: DefaultStopTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start builds and starts the first generation from cfg, then begins
// watching the configuration file. A missing config file path disables
// watching; the first generation still runs.
func (c *Coordinator) Start(cfg *config.ServerConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	runnable, err := c.factory(cfg)
	if err != nil {
		return err
	}
	if err := runnable.Start(); err != nil {
		return err
	}
	c.current = runnable
	c.currentCfg = cfg
	c.generation = 1

	if c.configFile == "" {
		return nil
	}

	watcher, err := confloader.NewWatcher()
	if err != nil {
		// The serving generation is already up; reloads are just
		// unavailable. Stop it again so the caller sees a clean error.
		stopCtx, cancel := context.WithTimeout(context.Background(), c.stopTimeout)
		defer cancel()
		_ = runnable.Stop(stopCtx)
		c.current = nil
		return domain.ErrConfigReload.WithCause(err)
	}
	if err := watcher.Watch(c.configFile); err != nil {
		_ = watcher.Stop()
		stopCtx, cancel := context.WithTimeout(context.Background(), c.stopTimeout)
		defer cancel()
		_ = runnable.Stop(stopCtx)
		c.current = nil
		return domain.ErrConfigReload.WithCause(err)
	}

	watcher.OnChange(func(path string) {
		if err := c.Reload(); err != nil {
			c.log.Error("configuration reload failed, previous configuration stays active",
				"path", path,
				"error", err)
		}
	})
	watcher.StartAsync()
	c.watcher = watcher

	return nil
}

// Reload loads and verifies the configuration file, then replaces the
// serving generation. On any failure the running generation and its
// configuration stay active and the error carries MP-CONF-5002.
func (c *Coordinator) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return domain.ErrConfigReload.WithDetails("coordinator is not running")
	}

	// 1. Load the new configuration on top of defaults
	cfg := config.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(c.configFile))
	if err := loader.Load(cfg); err != nil {
		return domain.ErrConfigReload.WithCause(err)
	}

	// 2. Verify before touching the running generation
	if err := config.Verify(cfg); err != nil {
		return domain.ErrConfigReload.WithCause(err)
	}

	// 3. Build the replacement; a factory failure leaves the old
	// generation serving
	next, err := c.factory(cfg)
	if err != nil {
		return domain.ErrConfigReload.WithCause(err)
	}

	// 4. Drain the old generation
	stopCtx, cancel := context.WithTimeout(context.Background(), c.stopTimeout)
	defer cancel()
	if err := c.current.Stop(stopCtx); err != nil {
		c.log.Warn("previous generation did not stop cleanly", "error", err)
	}

	// 5. Start the replacement; fall back to the old configuration's
	// generation when it cannot come up
	if err := next.Start(); err != nil {
		fallback, ferr := c.factory(c.currentCfg)
		if ferr == nil {
			if serr := fallback.Start(); serr == nil {
				c.current = fallback
				return domain.ErrConfigReload.WithCause(err)
			}
		}
		c.current = nil
		return domain.ErrConfigReload.WithCause(err)
	}

	c.current = next
	c.currentCfg = cfg
	c.generation++
	c.log.Info("configuration reloaded", "generation", c.generation)

	return nil
}

// Generation returns the number of generations started so far.
func (c *Coordinator) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Config returns the configuration of the running generation.
func (c *Coordinator) Config() *config.ServerConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentCfg
}

// Stop stops the watcher and drains the current generation.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != nil {
		if err := c.watcher.Stop(); err != nil {
			c.log.Warn("config watcher stop failed", "error", err)
		}
		c.watcher = nil
	}

	if c.current == nil {
		return nil
	}
	err := c.current.Stop(ctx)
	c.current = nil
	return err
}
