package projectrepo

import (
	"context"
	"time"

	"github.com/castcall/travel-planner-api/internal/domain"
)

// Project is the persistence shape used by the project repository.
// It is not an HTTP DTO.
type Project struct {
	ID   domain.ProjectID
	Name string

	HomeLocations []string
	// CastSettings are kept sorted by member name.
	CastSettings []domain.CastSetting
	// Periods preserve definition order (first-match-wins resolution).
	Periods []domain.ShootingPeriod
	// Schedule is the deduplicated (member, date) set, sorted by member then date.
	Schedule []domain.ShootingRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted projects.
//
// List results are ordered by name ascending, ID as tie-breaker.
type Repository interface {
	Create(ctx context.Context, p Project) error
	Save(ctx context.Context, p Project) error

	GetByID(ctx context.Context, id domain.ProjectID) (Project, error)
	List(ctx context.Context) ([]Project, error)

	Delete(ctx context.Context, id domain.ProjectID) error
}
