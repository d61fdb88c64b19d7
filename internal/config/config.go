// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// --------------------------------------------------------------------------
// Table names, matching schema.sql
// --------------------------------------------------------------------------

const (
	DriversTable = "drivers"
)

// DriversRunLock names the advisory lock held while a driver sync runs.
const DriversRunLock = "ingest:drivers"

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// OpenF1
	OpenF1BaseURL           string
	OpenF1RequestsPerMinute int
	OpenF1FanOutLimit       int

	// Ingestion triggers
	AdminToken     string
	IngestInterval time.Duration // zero disables the scheduler
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("db_pool_min_conns", 2)
	v.SetDefault("db_pool_max_conns", 10)
	v.SetDefault("db_pool_max_life_minutes", 30)
	v.SetDefault("api_host", "0.0.0.0")
	v.SetDefault("api_port", 8000)
	v.SetDefault("environment", "development")
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allow_origins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_requests", 100)
	v.SetDefault("rate_limit_window", 60)
	v.SetDefault("openf1_base", "https://api.openf1.org/v1")
	v.SetDefault("openf1_requests_per_minute", 180)
	v.SetDefault("openf1_fanout_limit", 4)
	v.SetDefault("ingest_interval_minutes", 0)

	dbURL := firstNonEmpty(v.GetString("database_url"), v.GetString("neon_database_url"))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or NEON_DATABASE_URL must be set")
	}

	port := v.GetInt("api_port")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid API_PORT: %d", port)
	}

	// A run holds one connection for its advisory lock while the store
	// acquires another.
	maxConns := v.GetInt("db_pool_max_conns")
	if maxConns < 2 {
		return nil, fmt.Errorf("invalid DB_POOL_MAX_CONNS: %d (need at least 2)", maxConns)
	}

	debug := v.GetBool("debug")
	level, err := parseLevel(v.GetString("log_level"), debug)
	if err != nil {
		return nil, err
	}

	interval := v.GetInt("ingest_interval_minutes")
	if interval < 0 {
		return nil, fmt.Errorf("invalid INGEST_INTERVAL_MINUTES: %d", interval)
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: v.GetInt("db_pool_min_conns"),
		DBPoolMaxConns: maxConns,
		DBPoolMaxLife:  time.Duration(v.GetInt("db_pool_max_life_minutes")) * time.Minute,

		APIHost:     v.GetString("api_host"),
		APIPort:     port,
		Environment: v.GetString("environment"),
		Debug:       debug,
		LogLevel:    level,

		CORSAllowOrigins: splitList(v.GetString("cors_allow_origins")),

		RateLimitEnabled:  v.GetBool("rate_limit_enabled"),
		RateLimitRequests: v.GetInt("rate_limit_requests"),
		RateLimitWindow:   time.Duration(v.GetInt("rate_limit_window")) * time.Second,

		OpenF1BaseURL:           strings.TrimRight(v.GetString("openf1_base"), "/"),
		OpenF1RequestsPerMinute: v.GetInt("openf1_requests_per_minute"),
		OpenF1FanOutLimit:       v.GetInt("openf1_fanout_limit"),

		AdminToken:     v.GetString("admin_token"),
		IngestInterval: time.Duration(interval) * time.Minute,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func parseLevel(s string, debug bool) (slog.Level, error) {
	if debug {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
