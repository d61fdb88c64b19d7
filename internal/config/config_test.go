package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("NEON_DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pitwall")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/pitwall", cfg.DatabaseURL)
	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, 30*time.Minute, cfg.DBPoolMaxLife)
	assert.Equal(t, "https://api.openf1.org/v1", cfg.OpenF1BaseURL)
	assert.Equal(t, 4, cfg.OpenF1FanOutLimit)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Zero(t, cfg.IngestInterval)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NEON_DATABASE_URL", "postgres://neon/pitwall")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OPENF1_BASE", "http://openf1.local/v1/")
	t.Setenv("INGEST_INTERVAL_MINUTES", "15")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://pitwall.app , ,https://admin.pitwall.app")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://neon/pitwall", cfg.DatabaseURL)
	assert.Equal(t, "http://openf1.local/v1", cfg.OpenF1BaseURL)
	assert.Equal(t, 15*time.Minute, cfg.IngestInterval)
	assert.Equal(t, []string{"https://pitwall.app", "https://admin.pitwall.app"}, cfg.CORSAllowOrigins)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.AdminToken)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadDebugForcesDebugLevel(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pitwall")
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pitwall")

	t.Run("log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "chatty")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("interval", func(t *testing.T) {
		t.Setenv("INGEST_INTERVAL_MINUTES", "-5")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("pool too small for run lock", func(t *testing.T) {
		t.Setenv("DB_POOL_MAX_CONNS", "1")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_POOL_MAX_CONNS")
	})
	t.Run("port", func(t *testing.T) {
		t.Setenv("API_PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})
}
