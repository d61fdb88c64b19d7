package seed

import "github.com/albapepper/pitwall-data/internal/provider"

// DiffResult splits incoming drivers into rows to write and a count of rows
// already persisted unchanged.
type DiffResult struct {
	ToUpsert []provider.Driver
	Skipped  int
}

// Diff compares deduplicated incoming drivers with the persisted rows.
// Existing rows missing an identity column are left out of the lookup, so a
// matching incoming driver is always rewritten.
//
// The table's conflict target is case-sensitive on full_name, so one key can
// hold several stored spellings. The row spelled exactly like the incoming
// driver is the one an upsert would touch, and it wins the comparison.
func Diff(incoming, existing []provider.Driver) DiffResult {
	byKey := make(map[provider.DriverKey][]provider.Driver, len(existing))
	for _, e := range existing {
		if !e.HasKey() {
			continue
		}
		byKey[e.Key()] = append(byKey[e.Key()], e)
	}

	var res DiffResult
	for _, d := range incoming {
		ex, ok := stored(byKey[d.Key()], d.FullName)
		if !ok || !provider.DriversEqual(ex, d) {
			res.ToUpsert = append(res.ToUpsert, d)
			continue
		}
		res.Skipped++
	}
	return res
}

// stored picks the candidate spelled exactly as fullName, falling back to the
// first one seen.
func stored(candidates []provider.Driver, fullName string) (provider.Driver, bool) {
	if len(candidates) == 0 {
		return provider.Driver{}, false
	}
	for _, c := range candidates {
		if c.FullName == fullName {
			return c, true
		}
	}
	return candidates[0], true
}
