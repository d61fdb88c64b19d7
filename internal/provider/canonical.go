// Package provider defines canonical data types that provider handlers
// normalize into. These structs are the contract between the OpenF1 handler
// and the seed runner: providers output these, seeders diff and write them to
// Postgres.
//
// Optional string attributes use "" for SQL NULL; the optional number uses a
// nil pointer. Absent and explicit null upstream values therefore collapse to
// the same Go value.
package provider

import (
	"fmt"
	"strings"
)

// Driver is the canonical driver shape written to the drivers table.
// FullName, CountryCode and SeasonYear are required and form the identity.
type Driver struct {
	FullName      string `json:"full_name"`
	CountryCode   string `json:"country_code"` // ISO-3166 alpha-3, upper case
	SeasonYear    int    `json:"season_year"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	NameAcronym   string `json:"name_acronym,omitempty"`
	DriverNumber  *int   `json:"driver_number,omitempty"`
	BroadcastName string `json:"broadcast_name,omitempty"`
	HeadshotURL   string `json:"headshot_url,omitempty"`
	TeamName      string `json:"team_name,omitempty"`
	TeamColour    string `json:"team_colour,omitempty"` // 6 lower-case hex digits, no '#'
}

// DriverKey identifies one logical driver within a season. Two observations
// with equal keys are the same driver and are merged before persistence.
type DriverKey struct {
	FullName    string // lower-cased
	CountryCode string
	SeasonYear  int
}

// Key returns the composite identity of d.
func (d Driver) Key() DriverKey {
	return DriverKey{
		FullName:    strings.ToLower(d.FullName),
		CountryCode: d.CountryCode,
		SeasonYear:  d.SeasonYear,
	}
}

// HasKey reports whether every identity column is populated. Rows read back
// from the database may violate this when they predate the NOT NULL columns.
func (d Driver) HasKey() bool {
	return d.FullName != "" && d.CountryCode != "" && d.SeasonYear != 0
}

// String renders the key as "name|code|year". Only used for logging.
func (k DriverKey) String() string {
	return fmt.Sprintf("%s|%s|%d", k.FullName, k.CountryCode, k.SeasonYear)
}

// DriversEqual compares every persisted attribute of a and b, identity
// columns included.
func DriversEqual(a, b Driver) bool {
	return a.FullName == b.FullName &&
		a.CountryCode == b.CountryCode &&
		a.SeasonYear == b.SeasonYear &&
		a.FirstName == b.FirstName &&
		a.LastName == b.LastName &&
		a.NameAcronym == b.NameAcronym &&
		intPtrEqual(a.DriverNumber, b.DriverNumber) &&
		a.BroadcastName == b.BroadcastName &&
		a.HeadshotURL == b.HeadshotURL &&
		a.TeamName == b.TeamName &&
		a.TeamColour == b.TeamColour
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
