package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/castcall/travel-planner-api/internal/domain"
	projectrepoport "github.com/castcall/travel-planner-api/internal/ports/out/projectrepo"
)

type CleanupFunc = func()

type ProjectRepoFactory func(t *testing.T) (projectrepoport.Repository, CleanupFunc)

// RunProjectRepo exercises the behaviors every projectrepo.Repository
// implementation must share: create/save/get round-trips, sentinel errors,
// deterministic list ordering, and deletion.
func RunProjectRepo(t *testing.T, newRepo ProjectRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.ProjectID(uuid.NewString())
	a := projectrepoport.Project{
		ID:            aID,
		Name:          "Winter Shoot",
		HomeLocations: []string{"Local", "Berlin"},
		CastSettings: []domain.CastSetting{
			{Member: "Jane Doe", Include: true, HomeLocation: "Local"},
		},
		Periods: []domain.ShootingPeriod{
			{Name: "Berlin Block", Location: "Berlin", Start: day(2026, 1, 5), End: day(2026, 1, 20)},
		},
		Schedule: []domain.ShootingRecord{
			{Member: "Jane Doe", Date: day(2026, 1, 6)},
			{Member: "Jane Doe", Date: day(2026, 1, 9)},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if err := repo.Create(ctx, a); !errors.Is(err, projectrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate: got %v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Winter Shoot" || len(got.Schedule) != 2 || len(got.Periods) != 1 {
		t.Fatalf("unexpected project: %+v", got)
	}
	if !got.Schedule[0].Date.Equal(day(2026, 1, 6)) {
		t.Fatalf("unexpected schedule date: %v", got.Schedule[0].Date)
	}

	if _, err := repo.GetByID(ctx, domain.ProjectID(uuid.NewString())); !errors.Is(err, projectrepoport.ErrNotFound) {
		t.Fatalf("GetByID missing: got %v, want ErrNotFound", err)
	}

	// Save replaces the full record.
	a.Name = "Winter Shoot v2"
	a.UpdatedAt = now.Add(time.Minute)
	a.Schedule = append(a.Schedule, domain.ShootingRecord{Member: "Jane Doe", Date: day(2026, 1, 12)})
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID after Save: %v", err)
	}
	if got.Name != "Winter Shoot v2" || len(got.Schedule) != 3 {
		t.Fatalf("Save not applied: %+v", got)
	}

	missing := a
	missing.ID = domain.ProjectID(uuid.NewString())
	if err := repo.Save(ctx, missing); !errors.Is(err, projectrepoport.ErrNotFound) {
		t.Fatalf("Save missing: got %v, want ErrNotFound", err)
	}

	// Deterministic list ordering by name (case-insensitive), ID tie-break.
	bID := domain.ProjectID(uuid.NewString())
	if err := repo.Create(ctx, projectrepoport.Project{
		ID:            bID,
		Name:          "autumn shoot",
		HomeLocations: []string{"Local"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	ps, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ps) != 2 || ps[0].ID != bID || ps[1].ID != aID {
		t.Fatalf("unexpected ordering: %#v", ps)
	}

	if err := repo.Delete(ctx, bID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, bID); !errors.Is(err, projectrepoport.ErrNotFound) {
		t.Fatalf("Delete missing: got %v, want ErrNotFound", err)
	}
	ps, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List after Delete: %v", err)
	}
	if len(ps) != 1 || ps[0].ID != aID {
		t.Fatalf("unexpected projects after delete: %#v", ps)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
