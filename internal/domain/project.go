package domain

import "time"

// Project is the domain representation of a planning project: one ingested
// schedule plus the user-managed configuration around it. Configuration is
// mutated only through explicit edits between planning passes.
type Project struct {
	ID   ProjectID
	Name string

	HomeLocations []string
	CastSettings  []CastSetting
	// Periods keep their definition order; the resolver's first-match-wins
	// tie-break depends on it.
	Periods  []ShootingPeriod
	Schedule []ShootingRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}
