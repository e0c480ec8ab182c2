package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/yndnr/macpulse-go/internal/core/service"
	"github.com/yndnr/macpulse-go/internal/infra/buildinfo"
	"github.com/yndnr/macpulse-go/internal/infra/confloader"
	"github.com/yndnr/macpulse-go/internal/infra/reload"
	"github.com/yndnr/macpulse-go/internal/infra/shutdown"
	"github.com/yndnr/macpulse-go/internal/server/config"
	"github.com/yndnr/macpulse-go/internal/server/httpserver"
	"github.com/yndnr/macpulse-go/internal/storage/memory"
	"github.com/yndnr/macpulse-go/internal/telemetry/logger"
	"github.com/yndnr/macpulse-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("macpulse-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting macpulse-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	// The cache, the counters and the service built on them live for
	// the whole process. Config reloads replace only the serving
	// generation around them, so cached device state survives.
	store := memory.New(memory.WithShards(cfg.Cache.Shards))
	counters := metric.NewCounters()
	deviceSvc := service.NewDeviceService(store, service.WithRecorder(counters))
	metricsHandler := metric.Handler(metric.NewRegistry(counters, store))

	factory := func(cfg *config.ServerConfig) (reload.Runnable, error) {
		return newGeneration(cfg, deviceSvc, counters, metricsHandler, log), nil
	}

	coordinator := reload.NewCoordinator(*configFile, factory,
		reload.WithLogger(log),
		reload.WithStopTimeout(cfg.Server.HTTP.ShutdownTimeout))
	if err := coordinator.Start(cfg); err != nil {
		return fmt.Errorf("start serving layer: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout)
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping serving layer")
		return coordinator.Stop(ctx)
	})

	log.Info("server started", "addr", cfg.Server.HTTP.Addr)
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// generation is one serving incarnation: HTTP server plus sweeper,
// both built from a single verified configuration.
type generation struct {
	cfg     *config.ServerConfig
	server  *httpserver.Server
	sweeper *service.Sweeper
	cancel  context.CancelFunc
	log     logger.Logger
}

func newGeneration(cfg *config.ServerConfig, svc *service.DeviceService, counters *metric.Counters, metricsHandler http.Handler, log logger.Logger) *generation {
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		DeviceService:   svc,
		Counters:        counters,
		MetricsHandler:  metricsHandler,
		Logger:          logger.Slog(),
		StaleThreshold:  cfg.Cache.StaleThreshold,
		RateLimitRPS:    cfg.Server.HTTP.RateLimitRPS,
		RateLimitBurst:  cfg.Server.HTTP.RateLimitBurst,
		EnableAccessLog: true,
	})

	g := &generation{
		cfg:    cfg,
		server: httpserver.New(cfg.Server.HTTP, router),
		log:    log,
	}

	if cfg.Maintenance.Enabled {
		g.sweeper = service.NewSweeper(svc, cfg.Maintenance.Interval, cfg.Maintenance.MaxAge,
			service.WithSweeperLogger(log))
	}

	return g
}

// Start brings the generation up: the listener is bound first so an
// unusable address fails here instead of inside the serve goroutine,
// then the sweeper starts on its configured backend and the accept
// loop moves to the background.
func (g *generation) Start() error {
	if err := g.server.Listen(); err != nil {
		return fmt.Errorf("bind %s: %w", g.cfg.Server.HTTP.Addr, err)
	}

	if g.sweeper != nil {
		switch g.cfg.Maintenance.Backend {
		case config.BackendTask:
			ctx, cancel := context.WithCancel(context.Background())
			g.cancel = cancel
			go func() {
				if err := g.sweeper.Run(ctx); err != nil {
					g.log.Error("sweeper exited", "error", err)
				}
			}()
		default:
			if err := g.sweeper.Start(); err != nil {
				g.server.Close()
				return err
			}
		}
	}

	go func() {
		g.log.Info("HTTP server listening", "addr", g.server.Addr())
		if err := g.server.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.log.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop drains the HTTP server, then stops the sweeper.
func (g *generation) Stop(ctx context.Context) error {
	err := g.server.Shutdown(ctx)

	if g.sweeper != nil {
		g.sweeper.Stop()
	}
	if g.cancel != nil {
		g.cancel()
	}

	return err
}
