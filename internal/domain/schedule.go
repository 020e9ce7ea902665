package domain

import "time"

// HomeLocationLocal is the location meaning "no travel from here". It must be
// present in every project's home-location set; cast members default to it.
const HomeLocationLocal = "Local"

// DefaultHomeLocations seeds new projects.
func DefaultHomeLocations() []string {
	return []string{HomeLocationLocal, "Away"}
}

// ShootingRecord is one (cast member, shooting date) pair. The schedule for a
// project is a deduplicated set of these; the set for one member, sorted
// ascending by date, drives all downstream logic.
type ShootingRecord struct {
	Member string
	Date   time.Time // UTC midnight, date-only semantics
}

// GapRecord is a ShootingRecord annotated with the gap since the member's
// previous shooting date. GapDays counts calendar days strictly between the
// two dates and is never negative; the first record of a member has gap 0.
type GapRecord struct {
	ShootingRecord

	PrevDate         *time.Time
	GapDays          int
	WeekendDaysInGap int
}

// CastSetting controls whether a member participates in planning and where
// they travel from.
type CastSetting struct {
	Member       string
	Include      bool
	HomeLocation string
}

// ShootingPeriod is a named, inclusive date range shot at one location.
// When ranges overlap, the first definition in project order wins; this is a
// documented tie-break, not enforced uniqueness.
type ShootingPeriod struct {
	Name     string
	Location string
	Start    time.Time
	End      time.Time
}

// Contains reports whether the date falls inside the period's inclusive range.
func (p ShootingPeriod) Contains(date time.Time) bool {
	return !date.Before(p.Start) && !date.After(p.End)
}
