// Package ingest wires the driver seeder behind the run lock and metrics so
// the CLI, the admin endpoint and the scheduler all trigger runs the same way.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/albapepper/pitwall-data/internal/config"
	"github.com/albapepper/pitwall-data/internal/db"
	"github.com/albapepper/pitwall-data/internal/metrics"
	"github.com/albapepper/pitwall-data/internal/provider/openf1"
	"github.com/albapepper/pitwall-data/internal/seed"
)

// Triggers label where a run came from.
const (
	TriggerCLI       = "cli"
	TriggerAPI       = "api"
	TriggerScheduler = "scheduler"
)

const datasetDrivers = "drivers"

// Locker serializes runs across processes.
type Locker interface {
	WithRunLock(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// Seeder performs a single driver synchronization.
type Seeder interface {
	Run(ctx context.Context, opts seed.Options) (seed.Result, error)
}

// Runner executes driver syncs under the run lock and records metrics.
type Runner struct {
	locker  Locker
	drivers Seeder
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// NewRunner creates a Runner. rec may be nil.
func NewRunner(locker Locker, drivers Seeder, rec *metrics.Recorder, logger *slog.Logger) *Runner {
	return &Runner{locker: locker, drivers: drivers, metrics: rec, logger: logger}
}

// NewFromConfig builds the production Runner: OpenF1 handler, Postgres
// store and seeder over pool.
func NewFromConfig(cfg *config.Config, pool *db.Pool, rec *metrics.Recorder, logger *slog.Logger) *Runner {
	handler := openf1.NewDriverHandler(openf1.Config{
		BaseURL:           cfg.OpenF1BaseURL,
		RequestsPerMinute: cfg.OpenF1RequestsPerMinute,
		FanOutLimit:       cfg.OpenF1FanOutLimit,
	}, logger)
	seeder := seed.NewDriverSeeder(handler, db.NewDriverStore(pool.Pool), logger)
	return NewRunner(pool, seeder, rec, logger)
}

// SyncDrivers runs one driver synchronization. It returns db.ErrRunInProgress
// without touching OpenF1 when another run holds the lock.
func (r *Runner) SyncDrivers(ctx context.Context, trigger string, opts seed.Options) (seed.Result, error) {
	start := time.Now()
	var result seed.Result

	err := r.locker.WithRunLock(ctx, config.DriversRunLock, func(ctx context.Context) error {
		var err error
		result, err = r.drivers.Run(ctx, opts)
		return err
	})
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, db.ErrRunInProgress):
		outcome = metrics.OutcomeBusy
		r.logger.Warn("Driver sync skipped, another run holds the lock", "trigger", trigger)
	case err != nil:
		outcome = metrics.OutcomeFailed
		result = seed.Result{}
		r.logger.Error("Driver sync failed", "trigger", trigger,
			"duration", elapsed.Round(time.Millisecond), "error", err)
	default:
		r.logger.Info("Driver sync finished", "trigger", trigger,
			"duration", elapsed.Round(time.Millisecond), "summary", result.Summary())
	}
	if r.metrics != nil {
		r.metrics.ObserveRun(datasetDrivers, trigger, outcome, result, elapsed)
	}
	return result, err
}
