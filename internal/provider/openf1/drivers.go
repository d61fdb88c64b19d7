package openf1

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/pitwall-data/internal/retry"
)

// LatestMeeting is the OpenF1 sentinel meeting key for the most recent meeting.
const LatestMeeting = "latest"

const (
	defaultBulkTimeout = 40 * time.Second
	defaultFanOutLimit = 4
)

// Strategy selects which upstream calls make up one driver fetch.
type Strategy int

const (
	// StrategyAll issues one unfiltered /drivers call.
	StrategyAll Strategy = iota
	// StrategyMeeting issues one /drivers call for a single meeting.
	StrategyMeeting
	// StrategyYear lists the year's meetings and fetches each one's drivers.
	StrategyYear
)

func (s Strategy) String() string {
	switch s {
	case StrategyMeeting:
		return "meeting"
	case StrategyYear:
		return "year"
	default:
		return "all"
	}
}

// Query carries the filters a strategy needs.
type Query struct {
	Year       string
	MeetingKey string
}

// Config tunes a DriverHandler. Zero values fall back to defaults.
type Config struct {
	BaseURL           string
	RequestsPerMinute int
	FanOutLimit       int
	Policy            retry.Policy  // filtered calls; retry.Default when zero
	BulkTimeout       time.Duration // per-attempt timeout for the unfiltered call
}

// DriverHandler fetches raw driver records from OpenF1.
type DriverHandler struct {
	client      *Client
	policy      retry.Policy
	bulkPolicy  retry.Policy
	fanOutLimit int
	logger      *slog.Logger
}

// NewDriverHandler creates a driver handler with its own rate-limited client.
func NewDriverHandler(cfg Config, logger *slog.Logger) *DriverHandler {
	if logger == nil {
		logger = slog.Default()
	}
	policy := cfg.Policy
	if policy.Attempts == 0 {
		policy = retry.Default
	}
	bulk := cfg.BulkTimeout
	if bulk == 0 {
		bulk = defaultBulkTimeout
	}
	limit := cfg.FanOutLimit
	if limit <= 0 {
		limit = defaultFanOutLimit
	}
	return &DriverHandler{
		client:      NewClient(cfg.BaseURL, cfg.RequestsPerMinute, logger),
		policy:      policy,
		bulkPolicy:  policy.WithTimeout(bulk),
		fanOutLimit: limit,
		logger:      logger,
	}
}

// --------------------------------------------------------------------------
// Raw shapes
// --------------------------------------------------------------------------

// RawDriver is one /drivers row as OpenF1 returns it. Every field is
// optional; the upstream schema carries no guarantees.
type RawDriver struct {
	BroadcastName *string `json:"broadcast_name"`
	CountryCode   *string `json:"country_code"`
	DriverNumber  *int    `json:"driver_number"`
	FirstName     *string `json:"first_name"`
	FullName      *string `json:"full_name"`
	HeadshotURL   *string `json:"headshot_url"`
	LastName      *string `json:"last_name"`
	MeetingKey    *int    `json:"meeting_key"`
	NameAcronym   *string `json:"name_acronym"`
	SessionKey    *int    `json:"session_key"`
	TeamColour    *string `json:"team_colour"`
	TeamName      *string `json:"team_name"`
}

// Meeting is the subset of a /meetings row the fan-out needs.
type Meeting struct {
	MeetingKey  int    `json:"meeting_key"`
	MeetingName string `json:"meeting_name"`
	Year        int    `json:"year"`
}

// --------------------------------------------------------------------------
// Fetching
// --------------------------------------------------------------------------

// FetchDrivers runs strategy s. Failures of the meeting list, a single
// meeting lookup, or the unfiltered call are returned. Failures of individual
// meeting fetches during a year fan-out are logged and dropped.
func (h *DriverHandler) FetchDrivers(ctx context.Context, s Strategy, q Query) ([]RawDriver, error) {
	switch s {
	case StrategyMeeting:
		drivers, err := h.meetingDrivers(ctx, q.MeetingKey)
		if err != nil {
			return nil, fmt.Errorf("fetch drivers for meeting %s: %w", q.MeetingKey, err)
		}
		return drivers, nil
	case StrategyYear:
		return h.yearDrivers(ctx, q.Year)
	default:
		drivers, err := getList[RawDriver](ctx, h.client, "/drivers", nil, h.bulkPolicy)
		if err != nil {
			return nil, fmt.Errorf("fetch all drivers: %w", err)
		}
		return drivers, nil
	}
}

// Meetings lists the meetings held in year.
func (h *DriverHandler) Meetings(ctx context.Context, year string) ([]Meeting, error) {
	return getList[Meeting](ctx, h.client, "/meetings", url.Values{"year": {year}}, h.policy)
}

func (h *DriverHandler) meetingDrivers(ctx context.Context, meetingKey string) ([]RawDriver, error) {
	return getList[RawDriver](ctx, h.client, "/drivers", url.Values{"meeting_key": {meetingKey}}, h.policy)
}

func (h *DriverHandler) yearDrivers(ctx context.Context, year string) ([]RawDriver, error) {
	meetings, err := h.Meetings(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetch meetings for %s: %w", year, err)
	}
	if len(meetings) == 0 {
		h.logger.Info("No OpenF1 meetings found", "year", year)
		return nil, nil
	}

	// One slot per meeting keeps the concatenation in meeting order.
	results := make([][]RawDriver, len(meetings))
	var failed atomic.Int32

	var g errgroup.Group
	g.SetLimit(h.fanOutLimit)
	for i, m := range meetings {
		key := strconv.Itoa(m.MeetingKey)
		g.Go(func() error {
			drivers, err := h.meetingDrivers(ctx, key)
			if err != nil {
				failed.Add(1)
				h.logger.Warn("meeting drivers fetch failed, skipping",
					"meeting_key", key, "meeting", m.MeetingName, "error", err)
				return nil
			}
			results[i] = drivers
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []RawDriver
	for _, r := range results {
		all = append(all, r...)
	}
	h.logger.Info("OpenF1 meeting fan-out done",
		"year", year, "meetings", len(meetings),
		"failed", failed.Load(), "drivers", len(all))
	return all, nil
}
