package projects

import (
	"github.com/castcall/travel-planner-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type CreateProjectInput struct {
	Name string
}

type UpdateProjectInput struct {
	// Name is optional and cannot be null.
	Name Optional[string]
}

type UpdateCastSettingInput struct {
	// Include is optional and cannot be null.
	Include Optional[bool]
	// HomeLocation is optional, cannot be null, and must be one of the
	// project's home locations.
	HomeLocation Optional[string]
}

// ComputePlanInput carries the user-selected planning parameters; cast
// settings and shooting periods come from the stored project configuration.
type ComputePlanInput struct {
	MaxGapDays         int
	SendHomeOnWeekends bool
	ArrivalPolicy      domain.ArrivalPolicy
	DeparturePolicy    domain.DeparturePolicy
}
