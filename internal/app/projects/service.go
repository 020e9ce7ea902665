package projects

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/castcall/travel-planner-api/internal/app/planner"
	"github.com/castcall/travel-planner-api/internal/domain"
	clockport "github.com/castcall/travel-planner-api/internal/ports/out/clock"
	"github.com/castcall/travel-planner-api/internal/ports/out/projectrepo"
)

type Service struct {
	repo projectrepo.Repository
	clk  clockport.Clock

	newProjectID func() domain.ProjectID
}

func NewService(repo projectrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newProjectID: func() domain.ProjectID {
			return domain.ProjectID(uuid.NewString())
		},
	}
}

// SetNewProjectIDForTest overrides project ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewProjectIDForTest(fn func() domain.ProjectID) {
	if fn != nil {
		s.newProjectID = fn
	}
}

func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (domain.Project, error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
	}

	now := s.clk.Now()
	p := projectrepo.Project{
		ID:            s.newProjectID(),
		Name:          name,
		HomeLocations: domain.DefaultHomeLocations(),
		CastSettings:  []domain.CastSetting{},
		Periods:       []domain.ShootingPeriod{},
		Schedule:      []domain.ShootingRecord{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, projectrepo.ErrAlreadyExists) {
			return domain.Project{}, &Error{Status: 409, Code: "PROJECT_ID_CONFLICT", Message: "project id conflict"}
		}
		return domain.Project{}, err
	}
	return toDomain(p), nil
}

func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(ps))
	for _, p := range ps {
		out = append(out, toDomain(p))
	}
	return out, nil
}

func (s *Service) GetProject(ctx context.Context, id domain.ProjectID) (domain.Project, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	return toDomain(p), nil
}

func (s *Service) UpdateProject(ctx context.Context, id domain.ProjectID, in UpdateProjectInput) (domain.Project, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "cannot be null"}}
		}
		name := domain.NormalizeHumanName(in.Name.Value())
		if name == "" {
			return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
		}
		p.Name = name
	}
	return s.save(ctx, p)
}

func (s *Service) DeleteProject(ctx context.Context, id domain.ProjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, projectrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "PROJECT_NOT_FOUND", Message: "project not found"}
		}
		return err
	}
	return nil
}

// ReplaceSchedule swaps the project's shooting records for a freshly ingested
// set. Records are deduplicated per (member, date) and sorted; every member
// appearing in the schedule gets a cast setting, defaulting to included and
// home "Local". Existing settings are preserved.
func (s *Service) ReplaceSchedule(ctx context.Context, id domain.ProjectID, records []domain.ShootingRecord) (domain.Project, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	seen := make(map[domain.ShootingRecord]bool, len(records))
	schedule := make([]domain.ShootingRecord, 0, len(records))
	for _, r := range records {
		r.Member = domain.NormalizeHumanName(r.Member)
		r.Date = domain.Day(r.Date)
		if r.Member == "" || r.Date.IsZero() {
			return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid schedule record", Details: map[string]any{"schedule": "every record needs a member and a date"}}
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		schedule = append(schedule, r)
	}
	sort.Slice(schedule, func(i, j int) bool {
		a, b := schedule[i], schedule[j]
		if a.Member != b.Member {
			return a.Member < b.Member
		}
		return a.Date.Before(b.Date)
	})
	p.Schedule = schedule

	existing := make(map[string]bool, len(p.CastSettings))
	for _, cs := range p.CastSettings {
		existing[cs.Member] = true
	}
	for _, r := range schedule {
		if !existing[r.Member] {
			existing[r.Member] = true
			p.CastSettings = append(p.CastSettings, domain.CastSetting{
				Member:       r.Member,
				Include:      true,
				HomeLocation: domain.HomeLocationLocal,
			})
		}
	}
	sortCastSettings(p.CastSettings)

	return s.save(ctx, p)
}

func (s *Service) UpdateCastSetting(ctx context.Context, id domain.ProjectID, member string, in UpdateCastSettingInput) (domain.Project, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	idx := -1
	for i, cs := range p.CastSettings {
		if cs.Member == member {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Project{}, &Error{Status: 404, Code: "CAST_MEMBER_NOT_FOUND", Message: "cast member not found", Details: map[string]any{"member": member}}
	}

	if in.Include.IsSpecified() {
		if in.Include.IsNull() {
			return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid include", Details: map[string]any{"include": "cannot be null"}}
		}
		p.CastSettings[idx].Include = in.Include.Value()
	}
	if in.HomeLocation.IsSpecified() {
		if in.HomeLocation.IsNull() {
			return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid homeLocation", Details: map[string]any{"homeLocation": "cannot be null"}}
		}
		loc := strings.TrimSpace(in.HomeLocation.Value())
		if !containsLocation(p.HomeLocations, loc) {
			return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid homeLocation", Details: map[string]any{"homeLocation": fmt.Sprintf("%q is not a configured home location", loc)}}
		}
		p.CastSettings[idx].HomeLocation = loc
	}

	return s.save(ctx, p)
}

// SetHomeLocations replaces the project's home-location set. "Local" must be
// present: removing it would leave no way to express "no travel", so the edit
// is rejected and the prior configuration retained.
func (s *Service) SetHomeLocations(ctx context.Context, id domain.ProjectID, locations []string) (domain.Project, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	cleaned := make([]string, 0, len(locations))
	seen := make(map[string]bool, len(locations))
	for _, loc := range locations {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid home location", Details: map[string]any{"homeLocations": "location names must be non-empty"}}
		}
		if seen[loc] {
			continue
		}
		seen[loc] = true
		cleaned = append(cleaned, loc)
	}
	if !containsLocation(cleaned, domain.HomeLocationLocal) {
		return domain.Project{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "home locations must include Local", Details: map[string]any{"homeLocations": "\"Local\" must be included"}}
	}

	p.HomeLocations = cleaned
	return s.save(ctx, p)
}

// ReplacePeriods swaps the project's shooting periods, preserving definition
// order. Invalid ranges and unknown locations are rejected at the point of
// edit; overlapping ranges are allowed and resolve first-match-wins.
func (s *Service) ReplacePeriods(ctx context.Context, id domain.ProjectID, periods []domain.ShootingPeriod) (domain.Project, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	out := make([]domain.ShootingPeriod, 0, len(periods))
	for i, per := range periods {
		per.Name = domain.NormalizeHumanName(per.Name)
		if per.Name == "" {
			return domain.Project{}, periodError(i, "name must be non-empty")
		}
		if per.Start.IsZero() || per.End.IsZero() {
			return domain.Project{}, periodError(i, "start and end dates are required")
		}
		per.Start = domain.Day(per.Start)
		per.End = domain.Day(per.End)
		if per.End.Before(per.Start) {
			return domain.Project{}, periodError(i, "end date must not precede start date")
		}
		if !containsLocation(p.HomeLocations, per.Location) {
			return domain.Project{}, periodError(i, fmt.Sprintf("location %q is not a configured home location", per.Location))
		}
		out = append(out, per)
	}

	p.Periods = out
	return s.save(ctx, p)
}

// ComputePlan runs one planning pass over the stored project with the given
// parameters. An empty plan (nobody included, nothing scheduled) is a valid
// outcome, not an error.
func (s *Service) ComputePlan(ctx context.Context, id domain.ProjectID, in ComputePlanInput) (domain.Plan, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return domain.Plan{}, err
	}

	settings := make(map[string]domain.CastSetting, len(p.CastSettings))
	for _, cs := range p.CastSettings {
		settings[cs.Member] = cs
	}

	plan, err := planner.BuildPlan(p.Schedule, planner.Parameters{
		MaxGapDays:         in.MaxGapDays,
		SendHomeOnWeekends: in.SendHomeOnWeekends,
		ArrivalPolicy:      in.ArrivalPolicy,
		DeparturePolicy:    in.DeparturePolicy,
		CastSettings:       settings,
		Periods:            p.Periods,
	})
	if err != nil {
		var pe *planner.Error
		if errors.As(err, &pe) {
			return domain.Plan{}, &Error{Status: pe.Status, Code: pe.Code, Message: pe.Message, Details: pe.Details}
		}
		return domain.Plan{}, err
	}
	return plan, nil
}

func (s *Service) get(ctx context.Context, id domain.ProjectID) (projectrepo.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, projectrepo.ErrNotFound) {
			return projectrepo.Project{}, &Error{Status: 404, Code: "PROJECT_NOT_FOUND", Message: "project not found"}
		}
		return projectrepo.Project{}, err
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p projectrepo.Project) (domain.Project, error) {
	p.UpdatedAt = s.clk.Now()
	if err := s.repo.Save(ctx, p); err != nil {
		return domain.Project{}, err
	}
	return toDomain(p), nil
}

func periodError(index int, msg string) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid shooting period",
		Details: map[string]any{fmt.Sprintf("periods[%d]", index): msg},
	}
}

func containsLocation(locations []string, loc string) bool {
	for _, l := range locations {
		if strings.EqualFold(l, loc) {
			return true
		}
	}
	return false
}

func sortCastSettings(cs []domain.CastSetting) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Member < cs[j].Member })
}

func toDomain(p projectrepo.Project) domain.Project {
	return domain.Project{
		ID:            p.ID,
		Name:          p.Name,
		HomeLocations: append([]string(nil), p.HomeLocations...),
		CastSettings:  append([]domain.CastSetting(nil), p.CastSettings...),
		Periods:       append([]domain.ShootingPeriod(nil), p.Periods...),
		Schedule:      append([]domain.ShootingRecord(nil), p.Schedule...),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
