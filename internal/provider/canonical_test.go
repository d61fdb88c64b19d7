package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestDriverKey_CaseInsensitiveName(t *testing.T) {
	a := Driver{FullName: "Max VERSTAPPEN", CountryCode: "NED", SeasonYear: 2025}
	b := Driver{FullName: "max verstappen", CountryCode: "NED", SeasonYear: 2025}

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "max verstappen|NED|2025", a.Key().String())
}

func TestDriverKey_DelimiterInNameDoesNotCollide(t *testing.T) {
	a := Driver{FullName: "a|FRA", CountryCode: "GBR", SeasonYear: 2025}
	b := Driver{FullName: "a", CountryCode: "FRA|GBR", SeasonYear: 2025}

	assert.NotEqual(t, a.Key(), b.Key())
}

func TestDriver_HasKey(t *testing.T) {
	assert.True(t, Driver{FullName: "A", CountryCode: "FRA", SeasonYear: 2024}.HasKey())
	assert.False(t, Driver{CountryCode: "FRA", SeasonYear: 2024}.HasKey())
	assert.False(t, Driver{FullName: "A", SeasonYear: 2024}.HasKey())
	assert.False(t, Driver{FullName: "A", CountryCode: "FRA"}.HasKey())
}

func TestDriversEqual(t *testing.T) {
	base := Driver{
		FullName: "Lando NORRIS", CountryCode: "GBR", SeasonYear: 2025,
		DriverNumber: intPtr(4), TeamName: "McLaren", TeamColour: "ff8000",
	}

	same := base
	same.DriverNumber = intPtr(4)
	assert.True(t, DriversEqual(base, same), "pointer identity must not matter")

	renumbered := base
	renumbered.DriverNumber = intPtr(1)
	assert.False(t, DriversEqual(base, renumbered))

	unnumbered := base
	unnumbered.DriverNumber = nil
	assert.False(t, DriversEqual(base, unnumbered))
	assert.True(t, DriversEqual(unnumbered, unnumbered))

	renamed := base
	renamed.FullName = "LANDO NORRIS"
	assert.False(t, DriversEqual(base, renamed), "identity columns are compared too")
}
