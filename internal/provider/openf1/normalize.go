package openf1

import (
	"regexp"
	"strings"

	"github.com/albapepper/pitwall-data/internal/provider"
)

var (
	countryCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)
	teamColourRe  = regexp.MustCompile(`^[0-9a-f]{6}$`)
)

// NormalizeDrivers maps raw rows into canonical drivers for season and drops
// rows without a full name or a three-letter country code. Dropped rows are
// not errors.
func NormalizeDrivers(raw []RawDriver, season int) []provider.Driver {
	out := make([]provider.Driver, 0, len(raw))
	for _, r := range raw {
		d := normalizeDriver(r, season)
		if d.FullName == "" || !countryCodeRe.MatchString(d.CountryCode) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func normalizeDriver(raw RawDriver, season int) provider.Driver {
	first := str(raw.FirstName)
	last := str(raw.LastName)

	fullName := str(raw.FullName)
	if raw.FullName == nil {
		fullName = strings.TrimSpace(first + " " + last)
	}

	var number *int
	if raw.DriverNumber != nil {
		n := *raw.DriverNumber
		number = &n
	}

	return provider.Driver{
		FullName:      fullName,
		CountryCode:   strings.ToUpper(str(raw.CountryCode)),
		SeasonYear:    season,
		FirstName:     first,
		LastName:      last,
		NameAcronym:   str(raw.NameAcronym),
		DriverNumber:  number,
		BroadcastName: str(raw.BroadcastName),
		HeadshotURL:   str(raw.HeadshotURL),
		TeamName:      str(raw.TeamName),
		TeamColour:    normalizeColour(str(raw.TeamColour)),
	}
}

// normalizeColour strips a leading '#' and lower-cases the code. Anything
// that is not six hex digits afterwards becomes "".
func normalizeColour(s string) string {
	c := strings.ToLower(strings.TrimPrefix(s, "#"))
	if !teamColourRe.MatchString(c) {
		return ""
	}
	return c
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
