package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/macpulse-go/internal/core/domain"
	"github.com/yndnr/macpulse-go/internal/telemetry/logger"
)

// SweepStale removes every entry older than maxAge and returns the
// number removed. This is the primitive both sweeper backends call.
func (s *DeviceService) SweepStale(maxAge time.Duration) int {
	start := s.now()
	defer s.record(CategorySweep, start)

	now := s.now()
	return s.repo.RemoveIf(func(_ domain.HardwareAddr, state *domain.DeviceState) bool {
		return state.Age(now) > maxAge
	})
}

// Sweeper states.
const (
	sweeperIdle int32 = iota
	sweeperRunning
	sweeperStopped
)

// Sweeper periodically evicts stale entries from the device cache.
//
// Two interchangeable backends share one contract: Start spawns a
// dedicated goroutine with a blocking ticker loop, Run drives the same
// loop cooperatively in the caller's goroutine until its context is
// cancelled. A sweeper moves Idle -> Running -> Stopped and cannot be
// restarted; Stopped is terminal.
//
// A failed sweep iteration is contained and logged; only cancellation
// stops the loop. Running two sweepers against the same cache is safe
// (store-level atomicity holds) but redundant; embedders should run one.
type Sweeper struct {
	svc      *DeviceService
	interval time.Duration
	maxAge   time.Duration
	log      logger.Logger

	state    atomic.Int32
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// SweeperOption configures the Sweeper.
type SweeperOption func(*Sweeper)

// WithSweeperLogger sets the logger used for sweep reporting.
func WithSweeperLogger(log logger.Logger) SweeperOption {
	return func(sw *Sweeper) {
		sw.log = log
	}
}

// NewSweeper creates an idle sweeper over the given service.
func NewSweeper(svc *DeviceService, interval, maxAge time.Duration, opts ...SweeperOption) *Sweeper {
	sw := &Sweeper{
		svc:      svc,
		interval: interval,
		maxAge:   maxAge,
		log:      logger.Default(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw
}

// Start launches the dedicated-goroutine backend.
// Returns an error unless the sweeper is idle.
func (sw *Sweeper) Start() error {
	if !sw.state.CompareAndSwap(sweeperIdle, sweeperRunning) {
		return domain.ErrInvalidArgument.WithDetails("sweeper already started")
	}

	go func() {
		defer close(sw.doneCh)
		defer sw.state.Store(sweeperStopped)

		ticker := time.NewTicker(sw.interval)
		defer ticker.Stop()

		sw.log.Info("sweeper started",
			"interval", sw.interval.String(),
			"max_age", sw.maxAge.String(),
		)

		for {
			select {
			case <-ticker.C:
				sw.sweepOnce()
			case <-sw.stopCh:
				sw.log.Info("sweeper stopped")
				return
			}
		}
	}()

	return nil
}

// Run drives the cooperative backend in the calling goroutine until the
// context is cancelled. Returns an error unless the sweeper is idle;
// returns nil after cancellation.
func (sw *Sweeper) Run(ctx context.Context) error {
	if !sw.state.CompareAndSwap(sweeperIdle, sweeperRunning) {
		return domain.ErrInvalidArgument.WithDetails("sweeper already started")
	}
	defer close(sw.doneCh)
	defer sw.state.Store(sweeperStopped)

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	sw.log.Info("sweeper started",
		"interval", sw.interval.String(),
		"max_age", sw.maxAge.String(),
	)

	for {
		select {
		case <-ticker.C:
			sw.sweepOnce()
		case <-ctx.Done():
			sw.log.Info("sweeper stopped")
			return nil
		case <-sw.stopCh:
			sw.log.Info("sweeper stopped")
			return nil
		}
	}
}

// Stop requests cancellation and waits for the loop to exit.
// Safe to call multiple times; a no-op on an idle sweeper.
func (sw *Sweeper) Stop() {
	sw.stopOnce.Do(func() {
		close(sw.stopCh)
	})
	if sw.state.Load() != sweeperIdle {
		<-sw.doneCh
	} else {
		sw.state.Store(sweeperStopped)
	}
}

// Running reports whether the sweep loop is active.
func (sw *Sweeper) Running() bool {
	return sw.state.Load() == sweeperRunning
}

// sweepOnce runs a single sweep pass. A failure inside the pass is
// contained here so the loop never terminates on error.
func (sw *Sweeper) sweepOnce() {
	defer func() {
		if r := recover(); r != nil {
			err := domain.ErrSweepFailed.WithDetails(fmt.Sprint(r))
			sw.log.Error("sweep iteration failed", "error", err.Error())
		}
	}()

	removed := sw.svc.SweepStale(sw.maxAge)
	if removed > 0 {
		sw.log.Info("sweep removed stale entries",
			"removed", removed,
			"remaining", sw.svc.Len(),
		)
	} else {
		sw.log.Debug("sweep found no stale entries")
	}
}
