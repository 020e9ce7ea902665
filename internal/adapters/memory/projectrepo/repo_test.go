package projectrepo

import (
	"context"
	"testing"
	"time"

	"github.com/castcall/travel-planner-api/internal/domain"
	"github.com/castcall/travel-planner-api/internal/ports/out/projectrepo"
)

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	now := time.Unix(100, 0).UTC()

	p := projectrepo.Project{
		ID:            domain.ProjectID("p1"),
		Name:          "Winter Shoot",
		HomeLocations: []string{"Local", "Berlin"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	got, err := r.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if got.ID != p.ID || got.Name != p.Name || len(got.HomeLocations) != 2 {
		t.Fatalf("GetByID()=%+v, want %+v", got, p)
	}
}

func TestRepo_CreateRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	p1 := projectrepo.Project{ID: "p1", Name: "A"}
	p2 := projectrepo.Project{ID: "p1", Name: "B"}

	if err := r.Create(context.Background(), p1); err != nil {
		t.Fatalf("Create(p1) err=%v", err)
	}
	if err := r.Create(context.Background(), p2); err != projectrepo.ErrAlreadyExists {
		t.Fatalf("Create(p2) err=%v, want %v", err, projectrepo.ErrAlreadyExists)
	}
}

func TestRepo_SaveRequiresExisting(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	p := projectrepo.Project{ID: "p1", Name: "A"}

	if err := r.Save(context.Background(), p); err != projectrepo.ErrNotFound {
		t.Fatalf("Save(nonexistent) err=%v, want %v", err, projectrepo.ErrNotFound)
	}
	if err := r.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	p.Name = "A2"
	if err := r.Save(context.Background(), p); err != nil {
		t.Fatalf("Save() err=%v", err)
	}
	got, err := r.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if got.Name != "A2" {
		t.Fatalf("GetByID() after save name=%q, want %q", got.Name, "A2")
	}
}

func TestRepo_ReturnsClones(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	p := projectrepo.Project{
		ID:            "p1",
		Name:          "A",
		HomeLocations: []string{"Local"},
		Schedule: []domain.ShootingRecord{
			{Member: "Jane Doe", Date: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)},
		},
	}
	if err := r.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() err=%v", err)
	}

	// Mutating the caller's slices must not leak into the store.
	p.HomeLocations[0] = "Mutated"
	p.Schedule[0].Member = "Mutated"

	got, err := r.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if got.HomeLocations[0] != "Local" || got.Schedule[0].Member != "Jane Doe" {
		t.Fatalf("stored project aliases caller memory: %+v", got)
	}

	// Mutating a returned copy must not affect subsequent reads.
	got.HomeLocations[0] = "Mutated"
	again, err := r.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID() err=%v", err)
	}
	if again.HomeLocations[0] != "Local" {
		t.Fatalf("returned project aliases store memory: %+v", again)
	}
}

func TestRepo_ListOrdersByName(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), projectrepo.Project{ID: "p2", Name: "bravo"})
	_ = r.Create(context.Background(), projectrepo.Project{ID: "p1", Name: "Alpha"})
	_ = r.Create(context.Background(), projectrepo.Project{ID: "p3", Name: "Bravo"})

	got, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List() len=%d, want 3", len(got))
	}
	// Case-insensitive sort; tie breaks by ID.
	if got[0].Name != "Alpha" || got[1].ID != "p2" || got[2].ID != "p3" {
		t.Fatalf("List() order=%v", []domain.ProjectID{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()

	r := NewRepo()
	_ = r.Create(context.Background(), projectrepo.Project{ID: "p1", Name: "A"})

	if err := r.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete() err=%v", err)
	}
	if _, err := r.GetByID(context.Background(), "p1"); err != projectrepo.ErrNotFound {
		t.Fatalf("GetByID() after delete err=%v, want %v", err, projectrepo.ErrNotFound)
	}
	if err := r.Delete(context.Background(), "p1"); err != projectrepo.ErrNotFound {
		t.Fatalf("Delete() again err=%v, want %v", err, projectrepo.ErrNotFound)
	}
}
