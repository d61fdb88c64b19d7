// Package openf1 provides the HTTP client and driver handler for the OpenF1
// API (https://openf1.org).
//
// OpenF1 is unauthenticated, returns bare JSON arrays, and filters through
// query parameters. It rate-limits aggressively, so every request waits on a
// token bucket before going out.
package openf1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/albapepper/pitwall-data/internal/retry"
)

// DefaultBaseURL is the public OpenF1 endpoint.
const DefaultBaseURL = "https://api.openf1.org/v1"

// ErrNoResults is returned when OpenF1 answers 404 for a filter that matched
// nothing. Callers treat it as an empty result.
var ErrNoResults = errors.New("openf1: no results")

// Client is the shared HTTP client for all OpenF1 endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an OpenF1 HTTP client with rate limiting. A
// requestsPerMinute of zero disables the limiter.
func NewClient(baseURL string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	return &Client{
		// Deadlines come from the per-attempt context, not the client.
		httpClient: &http.Client{},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// get performs one rate-limited GET and decodes the JSON body into out.
// Client errors other than 408 and 429 are marked permanent so the retry
// loop gives up on them at once.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return retry.Permanent(ErrNoResults)
	case resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusRequestTimeout &&
		resp.StatusCode != http.StatusTooManyRequests:
		return retry.Permanent(fmt.Errorf("OpenF1 %s returned %d: %s", path, resp.StatusCode, truncate(body, 200)))
	default:
		return fmt.Errorf("OpenF1 %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}

// getList runs a GET under policy and decodes a JSON array of T. A 404 is
// reported as an empty list.
func getList[T any](ctx context.Context, c *Client, path string, params url.Values, policy retry.Policy) ([]T, error) {
	items, err := retry.Do(ctx, policy, func(ctx context.Context) ([]T, error) {
		var out []T
		err := c.get(ctx, path, params, &out)
		return out, err
	})
	if errors.Is(err, ErrNoResults) {
		return nil, nil
	}
	return items, err
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
