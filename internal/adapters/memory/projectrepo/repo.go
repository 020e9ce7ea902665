package projectrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/castcall/travel-planner-api/internal/domain"
	"github.com/castcall/travel-planner-api/internal/ports/out/projectrepo"
)

// Repo is an in-memory implementation of projectrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.ProjectID]projectrepo.Project
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ProjectID]projectrepo.Project),
	}
}

func (r *Repo) Create(ctx context.Context, p projectrepo.Project) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return projectrepo.ErrAlreadyExists
	}
	r.byID[p.ID] = cloneProject(p)
	return nil
}

func (r *Repo) Save(ctx context.Context, p projectrepo.Project) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return projectrepo.ErrNotFound
	}
	r.byID[p.ID] = cloneProject(p)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProjectID) (projectrepo.Project, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return projectrepo.Project{}, projectrepo.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *Repo) List(ctx context.Context) ([]projectrepo.Project, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]projectrepo.Project, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, cloneProject(p))
	}
	sortProjectsByName(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ProjectID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return projectrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneProject(p projectrepo.Project) projectrepo.Project {
	out := p
	out.HomeLocations = append([]string(nil), p.HomeLocations...)
	out.CastSettings = append([]domain.CastSetting(nil), p.CastSettings...)
	out.Periods = append([]domain.ShootingPeriod(nil), p.Periods...)
	out.Schedule = append([]domain.ShootingRecord(nil), p.Schedule...)
	return out
}

func sortProjectsByName(ps []projectrepo.Project) {
	sort.Slice(ps, func(i, j int) bool {
		ni := strings.ToLower(ps[i].Name)
		nj := strings.ToLower(ps[j].Name)
		if ni == nj {
			return string(ps[i].ID) < string(ps[j].ID)
		}
		return ni < nj
	})
}
