// Package seed provides the driver synchronization run: normalize, merge
// duplicates, diff against Postgres, upsert what changed.
package seed

import "fmt"

// Result tracks counts from one driver seeding run. It is returned to the
// caller and never persisted.
type Result struct {
	Fetched  int `json:"fetched"`  // rows surviving validation
	Unique   int `json:"unique"`   // rows after duplicate merge
	Upserted int `json:"upserted"` // rows written
	Skipped  int `json:"skipped"`  // Unique - Upserted
}

// Summary returns a human-readable summary of the seed operation.
func (r Result) Summary() string {
	return fmt.Sprintf(
		"fetched=%d unique=%d upserted=%d skipped=%d",
		r.Fetched, r.Unique, r.Upserted, r.Skipped,
	)
}
