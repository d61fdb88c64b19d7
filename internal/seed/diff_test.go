package seed

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/albapepper/pitwall-data/internal/provider"
)

func norris() provider.Driver {
	return provider.Driver{
		FullName: "Lando NORRIS", CountryCode: "GBR", SeasonYear: 2025,
		FirstName: "Lando", LastName: "Norris", NameAcronym: "NOR",
		DriverNumber: intPtr(4), TeamName: "McLaren", TeamColour: "ff8000",
	}
}

func TestDiff_NewRowIsUpserted(t *testing.T) {
	got := Diff([]provider.Driver{norris()}, nil)

	if diff := cmp.Diff([]provider.Driver{norris()}, got.ToUpsert); diff != "" {
		t.Errorf("ToUpsert mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, got.Skipped)
}

func TestDiff_IdenticalRowIsSkipped(t *testing.T) {
	got := Diff([]provider.Driver{norris()}, []provider.Driver{norris()})

	assert.Empty(t, got.ToUpsert)
	assert.Equal(t, 1, got.Skipped)
}

func TestDiff_ChangedFieldIsUpserted(t *testing.T) {
	changed := norris()
	changed.TeamColour = "000000"

	got := Diff([]provider.Driver{changed}, []provider.Driver{norris()})

	if diff := cmp.Diff([]provider.Driver{changed}, got.ToUpsert); diff != "" {
		t.Errorf("ToUpsert mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff_NameCaseChangeIsUpserted(t *testing.T) {
	recased := norris()
	recased.FullName = "Lando Norris"

	got := Diff([]provider.Driver{recased}, []provider.Driver{norris()})

	assert.Len(t, got.ToUpsert, 1, "keys match but the compared full name differs")
}

func TestDiff_MalformedExistingRowsAreIgnored(t *testing.T) {
	malformed := norris()
	malformed.SeasonYear = 0

	got := Diff([]provider.Driver{norris()}, []provider.Driver{malformed})

	assert.Len(t, got.ToUpsert, 1)
}

func TestDiff_IdempotentOncePersisted(t *testing.T) {
	incoming := []provider.Driver{norris(), {FullName: "Oscar PIASTRI", CountryCode: "AUS", SeasonYear: 2025}}

	first := Diff(incoming, nil)
	second := Diff(incoming, first.ToUpsert)

	assert.Len(t, first.ToUpsert, 2)
	assert.Empty(t, second.ToUpsert)
	assert.Equal(t, 2, second.Skipped)
}

func TestDiff_PrefersExactSpellingAmongStoredRows(t *testing.T) {
	exact := provider.Driver{FullName: "Max Verstappen", CountryCode: "NED", SeasonYear: 2025}
	other := provider.Driver{FullName: "Max VERSTAPPEN", CountryCode: "NED", SeasonYear: 2025}

	for _, existing := range [][]provider.Driver{{exact, other}, {other, exact}} {
		got := Diff([]provider.Driver{exact}, existing)
		assert.Empty(t, got.ToUpsert)
		assert.Equal(t, 1, got.Skipped)
	}

	// A new spelling is written once, then settles.
	renamed := provider.Driver{FullName: "MAX Verstappen", CountryCode: "NED", SeasonYear: 2025}
	first := Diff([]provider.Driver{renamed}, []provider.Driver{exact, other})
	assert.Len(t, first.ToUpsert, 1)
	second := Diff([]provider.Driver{renamed}, append([]provider.Driver{exact, other}, first.ToUpsert...))
	assert.Empty(t, second.ToUpsert)
}
