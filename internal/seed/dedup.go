package seed

import "github.com/albapepper/pitwall-data/internal/provider"

// PickFunc chooses which of two observations of the same driver to keep.
// current is the record already held for the key.
type PickFunc func(current, candidate provider.Driver) provider.Driver

// Richness counts the optional attributes that make a record more useful:
// team name, headshot and driver number.
func Richness(d provider.Driver) int {
	score := 0
	if d.TeamName != "" {
		score++
	}
	if d.HeadshotURL != "" {
		score++
	}
	if d.DriverNumber != nil {
		score++
	}
	return score
}

// PreferRicher keeps candidate only when it scores strictly higher, so equal
// records resolve to the first one seen.
func PreferRicher(current, candidate provider.Driver) provider.Driver {
	if Richness(candidate) > Richness(current) {
		return candidate
	}
	return current
}

// Deduplicate collapses drivers sharing a key into one record chosen by pick
// (PreferRicher when nil). Output follows the order in which keys first
// appear, so the same input always yields the same output.
func Deduplicate(drivers []provider.Driver, pick PickFunc) []provider.Driver {
	if pick == nil {
		pick = PreferRicher
	}

	index := make(map[provider.DriverKey]int, len(drivers))
	out := make([]provider.Driver, 0, len(drivers))
	for _, d := range drivers {
		key := d.Key()
		if i, ok := index[key]; ok {
			out[i] = pick(out[i], d)
			continue
		}
		index[key] = len(out)
		out = append(out, d)
	}
	return out
}
