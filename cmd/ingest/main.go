// Command ingest is the Pitwall data ingestion CLI.
//
// Usage:
//
//	pitwall-ingest drivers                     # unfiltered list, current season
//	pitwall-ingest drivers --year 2025         # every meeting of 2025
//	pitwall-ingest drivers --meeting latest    # most recent meeting
//	pitwall-ingest drivers --meeting 1229 --year 2024
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/pitwall-data/internal/config"
	"github.com/albapepper/pitwall-data/internal/db"
	"github.com/albapepper/pitwall-data/internal/ingest"
	"github.com/albapepper/pitwall-data/internal/seed"
)

var (
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "pitwall-ingest",
		Short:        "Pitwall data ingestion CLI",
		SilenceUsage: true,
	}

	root.AddCommand(driversCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// drivers command
// --------------------------------------------------------------------------

func driversCmd() *cobra.Command {
	var opts seed.Options
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Sync drivers from OpenF1",
		Long: "Fetches drivers from OpenF1, merges duplicates and upserts only new or changed rows.\n" +
			"--meeting wins over --year; with neither the unfiltered list is fetched.\n" +
			"Records are stamped with --year, or the current year when it is omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				runner := ingest.NewFromConfig(cfg, pool, nil, logger)
				result, err := runner.SyncDrivers(ctx, ingest.TriggerCLI, opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.Year, "year", "", "Season year (fans out over that year's meetings)")
	cmd.Flags().StringVar(&opts.MeetingKey, "meeting", "", `Meeting key, or "latest"`)
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runSeed handles config loading, DB connection, and context cancellation.
func runSeed(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logLevel.Set(cfg.LogLevel)

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
