package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/pitwall-data/internal/config"
	"github.com/albapepper/pitwall-data/internal/provider"
)

const driverColumns = `full_name, country_code, season_year, first_name, last_name,
	name_acronym, driver_number, broadcast_name, headshot_url, team_name, team_colour`

const upsertDriverSQL = `
	INSERT INTO ` + config.DriversTable + ` (
		full_name, country_code, season_year, first_name, last_name,
		name_acronym, driver_number, broadcast_name, headshot_url, team_name, team_colour
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	ON CONFLICT (full_name, country_code, season_year) DO UPDATE SET
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		name_acronym = EXCLUDED.name_acronym,
		driver_number = EXCLUDED.driver_number,
		broadcast_name = EXCLUDED.broadcast_name,
		headshot_url = EXCLUDED.headshot_url,
		team_name = EXCLUDED.team_name,
		team_colour = EXCLUDED.team_colour,
		updated_at = NOW()`

// DriverStore persists canonical drivers in the drivers table.
type DriverStore struct {
	pool *pgxpool.Pool
}

// NewDriverStore creates a store over pool.
func NewDriverStore(pool *pgxpool.Pool) *DriverStore {
	return &DriverStore{pool: pool}
}

// ExistingDrivers reads every persisted driver. NULL columns come back as
// zero values, so rows with a NULL identity column fail Driver.HasKey.
func (s *DriverStore) ExistingDrivers(ctx context.Context) ([]provider.Driver, error) {
	rows, err := s.pool.Query(ctx, "existing_drivers")
	if err != nil {
		return nil, fmt.Errorf("query existing drivers: %w", err)
	}
	defer rows.Close()

	var out []provider.Driver
	for rows.Next() {
		var d provider.Driver
		var fullName, countryCode, firstName, lastName, acronym *string
		var broadcast, headshot, teamName, colour *string
		var seasonYear *int
		if err := rows.Scan(
			&fullName, &countryCode, &seasonYear, &firstName, &lastName,
			&acronym, &d.DriverNumber, &broadcast, &headshot, &teamName, &colour,
		); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		d.FullName = deref(fullName)
		d.CountryCode = deref(countryCode)
		if seasonYear != nil {
			d.SeasonYear = *seasonYear
		}
		d.FirstName = deref(firstName)
		d.LastName = deref(lastName)
		d.NameAcronym = deref(acronym)
		d.BroadcastName = deref(broadcast)
		d.HeadshotURL = deref(headshot)
		d.TeamName = deref(teamName)
		d.TeamColour = deref(colour)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}
	return out, nil
}

// UpsertDrivers writes drivers in one transaction using a single batch. Any
// failing row rolls back the whole write.
func (s *DriverStore) UpsertDrivers(ctx context.Context, drivers []provider.Driver) error {
	if len(drivers) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	b := &pgx.Batch{}
	for _, d := range drivers {
		b.Queue(upsertDriverSQL,
			d.FullName, d.CountryCode, d.SeasonYear,
			nilEmpty(d.FirstName), nilEmpty(d.LastName), nilEmpty(d.NameAcronym),
			d.DriverNumber, nilEmpty(d.BroadcastName), nilEmpty(d.HeadshotURL),
			nilEmpty(d.TeamName), nilEmpty(d.TeamColour),
		)
	}

	br := tx.SendBatch(ctx, b)
	for _, d := range drivers {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert driver %s: %w", d.Key(), err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
