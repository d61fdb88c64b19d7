package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/pitwall-data/internal/provider"
	"github.com/albapepper/pitwall-data/internal/provider/openf1"
)

// ErrInvalidYear is returned before any fetch when Options.Year is not a
// season year.
var ErrInvalidYear = errors.New("invalid year")

const firstSeason = 1950

// Options are the run parameters accepted from the trigger layer.
type Options struct {
	Year       string // e.g. "2025"
	MeetingKey string // OpenF1 meeting key, or openf1.LatestMeeting
}

// Season resolves the season year stamped on every record: Year when set,
// otherwise the current year.
func (o Options) Season(now time.Time) (int, error) {
	y := strings.TrimSpace(o.Year)
	if y == "" {
		return now.Year(), nil
	}
	n, err := strconv.Atoi(y)
	if err != nil || n < firstSeason || n > 9999 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, o.Year)
	}
	return n, nil
}

// Strategy picks the fetch plan: a meeting key wins, then a year, then the
// unfiltered call.
func (o Options) Strategy() openf1.Strategy {
	switch {
	case strings.TrimSpace(o.MeetingKey) != "":
		return openf1.StrategyMeeting
	case strings.TrimSpace(o.Year) != "":
		return openf1.StrategyYear
	default:
		return openf1.StrategyAll
	}
}

// DriverFetcher pulls raw driver rows from the upstream API.
type DriverFetcher interface {
	FetchDrivers(ctx context.Context, s openf1.Strategy, q openf1.Query) ([]openf1.RawDriver, error)
}

// DriverStore reads and writes persisted drivers. UpsertDrivers must either
// apply every row or return an error.
type DriverStore interface {
	ExistingDrivers(ctx context.Context) ([]provider.Driver, error)
	UpsertDrivers(ctx context.Context, drivers []provider.Driver) error
}

// DriverSeeder runs fetch -> normalize -> dedup -> diff -> upsert for drivers.
type DriverSeeder struct {
	fetcher DriverFetcher
	store   DriverStore
	pick    PickFunc
	now     func() time.Time
	logger  *slog.Logger
}

// SeederOption customizes a DriverSeeder.
type SeederOption func(*DriverSeeder)

// WithPick replaces the duplicate tie-break policy.
func WithPick(pick PickFunc) SeederOption {
	return func(s *DriverSeeder) { s.pick = pick }
}

// WithClock sets the clock used for the default season.
func WithClock(now func() time.Time) SeederOption {
	return func(s *DriverSeeder) { s.now = now }
}

// NewDriverSeeder wires a seeder to its collaborators.
func NewDriverSeeder(fetcher DriverFetcher, store DriverStore, logger *slog.Logger, opts ...SeederOption) *DriverSeeder {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DriverSeeder{
		fetcher: fetcher,
		store:   store,
		pick:    PreferRicher,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one synchronization. Any fetch, read or write error aborts
// the run; there is no partial result and no run-level retry.
func (s *DriverSeeder) Run(ctx context.Context, opts Options) (Result, error) {
	var result Result

	season, err := opts.Season(s.now())
	if err != nil {
		return Result{}, err
	}
	strategy := opts.Strategy()
	logger := s.logger.With("run_id", uuid.NewString(), "strategy", strategy.String(), "season", season)

	// 1. Fetch
	logger.Info("Fetching OpenF1 drivers...", "year", opts.Year, "meeting_key", opts.MeetingKey)
	raw, err := s.fetcher.FetchDrivers(ctx, strategy, openf1.Query{
		Year:       strings.TrimSpace(opts.Year),
		MeetingKey: strings.TrimSpace(opts.MeetingKey),
	})
	if err != nil {
		return Result{}, fmt.Errorf("fetch drivers: %w", err)
	}

	// 2. Normalize + validate
	drivers := openf1.NormalizeDrivers(raw, season)
	result.Fetched = len(drivers)
	if result.Fetched == 0 {
		logger.Warn("No valid drivers received", "raw", len(raw))
		return result, nil
	}

	// 3. Merge duplicates
	incoming := Deduplicate(drivers, s.pick)
	result.Unique = len(incoming)

	// 4. Diff against everything already persisted
	existing, err := s.store.ExistingDrivers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load existing drivers: %w", err)
	}
	diff := Diff(incoming, existing)

	// 5. Upsert changed rows only
	if len(diff.ToUpsert) > 0 {
		if err := s.store.UpsertDrivers(ctx, diff.ToUpsert); err != nil {
			return Result{}, fmt.Errorf("upsert drivers: %w", err)
		}
	}
	result.Upserted = len(diff.ToUpsert)
	result.Skipped = result.Unique - result.Upserted

	logger.Info("Driver seed complete", "raw", len(raw), "summary", result.Summary())
	return result, nil
}
