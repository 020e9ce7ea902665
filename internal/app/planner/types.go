package planner

import (
	"github.com/castcall/travel-planner-api/internal/domain"
)

// Parameters are the user-selected inputs for one planning pass. The planner
// takes no ambient state: every invocation is a pure function of the schedule
// and these parameters.
type Parameters struct {
	// MaxGapDays is the split threshold: a gap of MaxGapDays or more between
	// consecutive shooting dates starts a new stay period.
	MaxGapDays int

	// SendHomeOnWeekends is accepted but currently has no effect on the
	// computed plan. It is kept as a hook for a future weekend policy.
	SendHomeOnWeekends bool

	ArrivalPolicy   domain.ArrivalPolicy
	DeparturePolicy domain.DeparturePolicy

	// CastSettings drives inclusion and the travel-required decision.
	// Members absent from the map are excluded from the pass.
	CastSettings map[string]domain.CastSetting

	// Periods are scanned in order; the first period containing a date wins.
	Periods []domain.ShootingPeriod
}

// Validate checks parameter invariants that would otherwise surface as
// nonsense output.
func (p Parameters) Validate() error {
	if p.MaxGapDays < 0 {
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid maxGapDays",
			Details: map[string]any{"maxGapDays": "must be >= 0"},
		}
	}
	switch p.ArrivalPolicy {
	case domain.ArrivalDayBefore, domain.ArrivalSameDay:
	default:
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid arrivalPolicy",
			Details: map[string]any{"arrivalPolicy": "must be DAY_BEFORE_SHOOTING or SAME_DAY_AS_SHOOTING"},
		}
	}
	switch p.DeparturePolicy {
	case domain.DepartureSameDay, domain.DepartureDayAfter:
	default:
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid departurePolicy",
			Details: map[string]any{"departurePolicy": "must be SAME_DAY_AS_SHOOTING or DAY_AFTER_SHOOTING"},
		}
	}
	return nil
}
