package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/pitwall-data/internal/provider"
)

func intPtr(n int) *int { return &n }

func TestRichness(t *testing.T) {
	assert.Equal(t, 0, Richness(provider.Driver{}))
	assert.Equal(t, 1, Richness(provider.Driver{TeamName: "Ferrari"}))
	assert.Equal(t, 3, Richness(provider.Driver{
		TeamName: "Ferrari", HeadshotURL: "h", DriverNumber: intPtr(16),
	}))
	assert.Equal(t, 0, Richness(provider.Driver{FirstName: "x", BroadcastName: "y"}),
		"only team, headshot and number count")
}

func TestDeduplicate_TieKeepsFirstSeen(t *testing.T) {
	first := provider.Driver{FullName: "A B", CountryCode: "FRA", SeasonYear: 2025, DriverNumber: intPtr(7)}
	second := provider.Driver{FullName: "a b", CountryCode: "FRA", SeasonYear: 2025, TeamName: "X"}

	got := Deduplicate([]provider.Driver{first, second}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, first, got[0])
}

func TestDeduplicate_RicherWins(t *testing.T) {
	poor := provider.Driver{FullName: "Charles LECLERC", CountryCode: "MON", SeasonYear: 2025}
	rich := provider.Driver{
		FullName: "Charles LECLERC", CountryCode: "MON", SeasonYear: 2025,
		TeamName: "Ferrari", DriverNumber: intPtr(16),
	}
	other := provider.Driver{FullName: "Lewis HAMILTON", CountryCode: "GBR", SeasonYear: 2025}

	got := Deduplicate([]provider.Driver{poor, other, rich}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, rich, got[0], "merged record stays in the first key position")
	assert.Equal(t, other, got[1])
}

func TestDeduplicate_DifferentSeasonsAreDistinct(t *testing.T) {
	a := provider.Driver{FullName: "A", CountryCode: "FRA", SeasonYear: 2024}
	b := provider.Driver{FullName: "A", CountryCode: "FRA", SeasonYear: 2025}

	assert.Len(t, Deduplicate([]provider.Driver{a, b}, nil), 2)
}

func TestDeduplicate_WinnerIsAtLeastAsRichAsDiscarded(t *testing.T) {
	in := []provider.Driver{
		{FullName: "K", CountryCode: "ITA", SeasonYear: 2025, HeadshotURL: "h"},
		{FullName: "K", CountryCode: "ITA", SeasonYear: 2025},
		{FullName: "K", CountryCode: "ITA", SeasonYear: 2025, TeamName: "T", DriverNumber: intPtr(12)},
		{FullName: "K", CountryCode: "ITA", SeasonYear: 2025, TeamName: "U"},
	}

	got := Deduplicate(in, nil)

	require.Len(t, got, 1)
	for _, d := range in {
		assert.GreaterOrEqual(t, Richness(got[0]), Richness(d))
	}
	assert.Equal(t, "T", got[0].TeamName)
}

func TestDeduplicate_CustomPick(t *testing.T) {
	keepLast := func(_, candidate provider.Driver) provider.Driver { return candidate }
	a := provider.Driver{FullName: "A", CountryCode: "FRA", SeasonYear: 2025, TeamName: "rich"}
	b := provider.Driver{FullName: "A", CountryCode: "FRA", SeasonYear: 2025}

	got := Deduplicate([]provider.Driver{a, b}, keepLast)

	require.Len(t, got, 1)
	assert.Equal(t, b, got[0])
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil, nil))
}
