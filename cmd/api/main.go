// Command api is the Pitwall Data API server. It serves health and metrics
// endpoints, the admin ingest trigger, and runs the scheduled driver sync.
//
// Usage:
//
//	pitwall-api
//	API_PORT=8080 INGEST_INTERVAL_MINUTES=60 pitwall-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/pitwall-data/internal/api"
	"github.com/albapepper/pitwall-data/internal/config"
	"github.com/albapepper/pitwall-data/internal/db"
	"github.com/albapepper/pitwall-data/internal/ingest"
	"github.com/albapepper/pitwall-data/internal/maintenance"
	"github.com/albapepper/pitwall-data/internal/metrics"
)

func main() {
	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logLevel.Set(cfg.LogLevel)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	rec := metrics.New()
	runner := ingest.NewFromConfig(cfg, pool, rec, logger)

	// Start maintenance tickers (scheduled driver sync)
	go maintenance.Start(ctx, runner, maintenance.Config{
		DriverSyncInterval: cfg.IngestInterval,
		RunOnStart:         cfg.IsProduction(),
	}, logger)

	// Create router
	router := api.NewRouter(api.Deps{
		DB:      pool,
		Drivers: runner,
		Metrics: rec.Handler(),
		Logger:  logger,
	}, cfg)

	// Create HTTP server. A year fan-out can take minutes, so the write
	// timeout covers the admin trigger.
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Pitwall Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"ingest_interval", cfg.IngestInterval)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
