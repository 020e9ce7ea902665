package domain

import "time"

type ArrivalPolicy string

const (
	ArrivalDayBefore ArrivalPolicy = "DAY_BEFORE_SHOOTING"
	ArrivalSameDay   ArrivalPolicy = "SAME_DAY_AS_SHOOTING"
)

type DeparturePolicy string

const (
	DepartureSameDay  DeparturePolicy = "SAME_DAY_AS_SHOOTING"
	DepartureDayAfter DeparturePolicy = "DAY_AFTER_SHOOTING"
)

// StayPeriod is a maximal run of one member's shooting dates within a
// (home location, period, travel-required) group where no internal gap
// reaches the split threshold.
type StayPeriod struct {
	Member         string
	HomeLocation   string
	PeriodName     string
	Number         int
	RequiresTravel bool

	ShootingDates []time.Time

	// Arrival/Departure bound the stay. Without travel they coincide with the
	// first and last shooting date.
	ArrivalDate   time.Time
	DepartureDate time.Time

	// GapDates are the non-shooting days strictly between arrival and departure.
	GapDates []time.Time

	// TravelDays and AccommodationNights are derived only when travel is
	// required; for a local stay both stay 0 even though arrival and
	// departure still bound the shooting span.
	TravelDays          int
	AccommodationNights int
}

// TravelSummary is the headline per-member result for one grouping:
// total travel days and accommodation nights across all stay periods.
type TravelSummary struct {
	Member              string
	HomeLocation        string
	TravelDays          int
	AccommodationNights int
	RequiresTravel      bool
}

// ExportRecord is one StayPeriod rendered into a billing-line shape for the
// financial export. X and FourX are spreadsheet multiplier placeholders; rate
// and currency columns are filled downstream.
type ExportRecord struct {
	Member       string
	HomeLocation string
	PeriodName   string
	PeriodNumber int

	Description string
	DateRange   string
	StartDate   time.Time
	EndDate     time.Time

	ShootingDays        int
	GapDays             int
	TravelDays          int
	AccommodationNights int

	ShootingDates []time.Time

	X     int
	FourX int

	RequiresTravel bool
}

// CalendarEvent is one travel, shooting, or gap day for one member.
type CalendarEvent struct {
	Member      string
	Title       string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
	AllDay      bool
}

// Plan is the complete output of one planning pass.
// All slices are non-nil; an empty plan is an explicit outcome, not an error.
type Plan struct {
	Summaries      []TravelSummary
	StayPeriods    []StayPeriod
	ExportRecords  []ExportRecord
	CalendarEvents []CalendarEvent

	// Diagnostics surfaces non-fatal conditions (e.g. a skipped period
	// definition) without aborting the pass.
	Diagnostics []string
}

// Empty reports whether the pass produced no output at all (no included cast
// members with shooting dates).
func (p Plan) Empty() bool {
	return len(p.Summaries) == 0 && len(p.ExportRecords) == 0 && len(p.CalendarEvents) == 0
}
