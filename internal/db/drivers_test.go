package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/pitwall-data/internal/config"
	"github.com/albapepper/pitwall-data/internal/provider"
)

// testPool recreates the drivers table in the database named by
// TEST_DATABASE_URL, then opens a pool on it. The table has to exist before
// the pool connects because statements are prepared against it.
func testPool(t *testing.T) *Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, url)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `
		DROP TABLE IF EXISTS drivers;
		CREATE TABLE drivers (
			id SERIAL PRIMARY KEY,
			full_name TEXT,
			country_code TEXT,
			season_year INT,
			first_name TEXT,
			last_name TEXT,
			name_acronym TEXT,
			driver_number INT,
			broadcast_name TEXT,
			headshot_url TEXT,
			team_name TEXT,
			team_colour TEXT,
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (full_name, country_code, season_year)
		)`)
	require.NoError(t, err)
	require.NoError(t, conn.Close(ctx))

	pool, err := New(ctx, &config.Config{
		DatabaseURL:    url,
		DBPoolMinConns: 1,
		DBPoolMaxConns: 4,
		DBPoolMaxLife:  time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestDriverStore_RoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	store := NewDriverStore(pool.Pool)

	n := 44
	in := []provider.Driver{
		{FullName: "Lewis HAMILTON", CountryCode: "GBR", SeasonYear: 2025, DriverNumber: &n, TeamName: "Ferrari", TeamColour: "e8002d"},
		{FullName: "Oliver BEARMAN", CountryCode: "GBR", SeasonYear: 2025},
	}
	require.NoError(t, store.UpsertDrivers(ctx, in))

	got, err := store.ExistingDrivers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, in, got)

	in[1].TeamName = "Haas F1 Team"
	require.NoError(t, store.UpsertDrivers(ctx, in[1:]))
	got, err = store.ExistingDrivers(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2, "conflict on identity updates in place")
}

func TestDriverStore_NullIdentityReadsAsMissingKey(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO drivers (full_name, country_code) VALUES ('Legacy Row', 'ITA')`)
	require.NoError(t, err)

	got, err := NewDriverStore(pool.Pool).ExistingDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].HasKey())
}

func TestWithRunLock_RejectsOverlap(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	err := pool.WithRunLock(ctx, "drivers", func(ctx context.Context) error {
		inner := pool.WithRunLock(ctx, "drivers", func(context.Context) error { return nil })
		assert.ErrorIs(t, inner, ErrRunInProgress)
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = pool.WithRunLock(ctx, "drivers", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom, "lock was released after the first run")
}
