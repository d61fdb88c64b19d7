// Package maintenance runs periodic background tasks as Go tickers.
// The API process is long-running, so scheduled syncs are driven from here
// instead of an external cron.
package maintenance

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/albapepper/pitwall-data/internal/ingest"
	"github.com/albapepper/pitwall-data/internal/seed"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	DriverSyncInterval time.Duration // OpenF1 drivers for the current season
	RunOnStart         bool
}

// DriverSyncer is satisfied by *ingest.Runner.
type DriverSyncer interface {
	SyncDrivers(ctx context.Context, trigger string, opts seed.Options) (seed.Result, error)
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, syncer DriverSyncer, cfg Config, logger *slog.Logger) {
	if cfg.DriverSyncInterval <= 0 {
		logger.Info("Maintenance tickers disabled (INGEST_INTERVAL_MINUTES=0)")
		return
	}
	logger.Info("Maintenance tickers started", "driver_sync", cfg.DriverSyncInterval)

	sync := func() { syncDrivers(ctx, syncer, logger) }
	if cfg.RunOnStart {
		sync()
	}

	t := time.NewTicker(cfg.DriverSyncInterval)
	defer t.Stop()
	runLoop(ctx, t.C, sync)

	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// syncDrivers runs a year sync for the current season. Failures are logged
// by the runner and retried on the next tick.
func syncDrivers(ctx context.Context, syncer DriverSyncer, logger *slog.Logger) {
	if ctx.Err() != nil {
		return
	}
	opts := seed.Options{Year: strconv.Itoa(time.Now().Year())}
	if _, err := syncer.SyncDrivers(ctx, ingest.TriggerScheduler, opts); err != nil {
		logger.Debug("Scheduled driver sync did not complete", "error", err)
	}
}
