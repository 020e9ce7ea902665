package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/castcall/travel-planner-api/internal/adapters/export/billing"
	"github.com/castcall/travel-planner-api/internal/adapters/export/icalendar"
	"github.com/castcall/travel-planner-api/internal/adapters/ingest/schedulecsv"
	"github.com/castcall/travel-planner-api/internal/app/projects"
	"github.com/castcall/travel-planner-api/internal/domain"
	clockport "github.com/castcall/travel-planner-api/internal/ports/out/clock"
)

// Server is the HTTP adapter over the projects service. It owns request
// decoding and response shaping; all behavior lives in the app layer.
type Server struct {
	Projects *projects.Service
	Clock    clockport.Clock
}

func NewServer(projectsSvc *projects.Service, clk clockport.Clock) *Server {
	return &Server{Projects: projectsSvc, Clock: clk}
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := s.Projects.CreateProject(r.Context(), projects.CreateProjectInput{Name: body.Name})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectFromDomain(p))
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := s.Projects.ListProjects(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]projectDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, projectFromDomain(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.Projects.GetProject(r.Context(), projectID(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectFromDomain(p))
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var body updateProjectRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	in := projects.UpdateProjectInput{}
	if body.Name.IsSpecified() {
		if body.Name.IsNull() {
			in.Name = projects.Null[string]()
		} else {
			v, err := body.Name.Get()
			if err != nil {
				writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid name", nil)
				return
			}
			in.Name = projects.Some(v)
		}
	}
	p, err := s.Projects.UpdateProject(r.Context(), projectID(r), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectFromDomain(p))
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.Projects.DeleteProject(r.Context(), projectID(r)); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// replaceSchedule accepts either a JSON record list or a raw schedule CSV
// (Content-Type: text/csv), covering both API clients and call-sheet uploads.
func (s *Server) replaceSchedule(w http.ResponseWriter, r *http.Request) {
	var records []domain.ShootingRecord

	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		recs, err := schedulecsv.Read(r.Body)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		records = recs
	} else {
		var body struct {
			Records []scheduleRecDTO `json:"records"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		records = make([]domain.ShootingRecord, 0, len(body.Records))
		for i, rec := range body.Records {
			date, err := domain.ParseDate(rec.Date)
			if err != nil {
				writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid schedule record", map[string]any{
					fmt.Sprintf("records[%d].date", i): err.Error(),
				})
				return
			}
			records = append(records, domain.ShootingRecord{Member: rec.Member, Date: date})
		}
	}

	p, err := s.Projects.ReplaceSchedule(r.Context(), projectID(r), records)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectFromDomain(p))
}

func (s *Server) updateCastSetting(w http.ResponseWriter, r *http.Request) {
	member := urlParam(r, "member")
	var body updateCastSettingRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	in := projects.UpdateCastSettingInput{}
	if body.Include.IsSpecified() {
		if body.Include.IsNull() {
			in.Include = projects.Null[bool]()
		} else if v, err := body.Include.Get(); err == nil {
			in.Include = projects.Some(v)
		}
	}
	if body.HomeLocation.IsSpecified() {
		if body.HomeLocation.IsNull() {
			in.HomeLocation = projects.Null[string]()
		} else if v, err := body.HomeLocation.Get(); err == nil {
			in.HomeLocation = projects.Some(v)
		}
	}
	p, err := s.Projects.UpdateCastSetting(r.Context(), projectID(r), member, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectFromDomain(p))
}

func (s *Server) setHomeLocations(w http.ResponseWriter, r *http.Request) {
	var body homeLocationsRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := s.Projects.SetHomeLocations(r.Context(), projectID(r), body.HomeLocations)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectFromDomain(p))
}

func (s *Server) replacePeriods(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Periods []periodDTO `json:"periods"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	periods := make([]domain.ShootingPeriod, 0, len(body.Periods))
	for i, per := range body.Periods {
		start, err := domain.ParseDate(per.StartDate)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid shooting period", map[string]any{
				fmt.Sprintf("periods[%d].startDate", i): err.Error(),
			})
			return
		}
		end, err := domain.ParseDate(per.EndDate)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid shooting period", map[string]any{
				fmt.Sprintf("periods[%d].endDate", i): err.Error(),
			})
			return
		}
		periods = append(periods, domain.ShootingPeriod{
			Name:     per.Name,
			Location: per.Location,
			Start:    start,
			End:      end,
		})
	}
	p, err := s.Projects.ReplacePeriods(r.Context(), projectID(r), periods)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectFromDomain(p))
}

func (s *Server) computePlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	plan, err := s.Projects.ComputePlan(r.Context(), projectID(r), planInput(body))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planFromDomain(plan))
}

func (s *Server) exportBillingCSV(w http.ResponseWriter, r *http.Request) {
	in, ok := planInputFromQuery(w, r)
	if !ok {
		return
	}
	plan, err := s.Projects.ComputePlan(r.Context(), projectID(r), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	rates := billing.DefaultRates(plan.ExportRecords)
	lines := billing.Lines(plan.ExportRecords, rates, in.MaxGapDays)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
	if err := billing.WriteCSV(w, rates, lines); err != nil {
		// Headers are already gone; nothing useful left to send.
		return
	}
}

func (s *Server) exportCalendarICS(w http.ResponseWriter, r *http.Request) {
	in, ok := planInputFromQuery(w, r)
	if !ok {
		return
	}
	plan, err := s.Projects.ComputePlan(r.Context(), projectID(r), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	events := plan.CalendarEvents
	if member := r.URL.Query().Get("member"); member != "" {
		filtered := events[:0:0]
		for _, ev := range events {
			if ev.Member == member {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}
	cal := icalendar.Calendar(events, s.Clock.Now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	_, _ = w.Write([]byte(cal.Serialize()))
}

// --- helpers ---

func projectID(r *http.Request) domain.ProjectID {
	return domain.ProjectID(urlParam(r, "projectID"))
}

func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func planInput(body planRequest) projects.ComputePlanInput {
	return projects.ComputePlanInput{
		MaxGapDays:         body.MaxGapDays,
		SendHomeOnWeekends: body.SendHomeOnWeekends,
		ArrivalPolicy:      domain.ArrivalPolicy(body.ArrivalPolicy),
		DeparturePolicy:    domain.DeparturePolicy(body.DeparturePolicy),
	}
}

func planInputFromQuery(w http.ResponseWriter, r *http.Request) (projects.ComputePlanInput, bool) {
	q := r.URL.Query()
	in := projects.ComputePlanInput{
		ArrivalPolicy:   domain.ArrivalPolicy(q.Get("arrivalPolicy")),
		DeparturePolicy: domain.DeparturePolicy(q.Get("departurePolicy")),
	}
	if v := q.Get("maxGapDays"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid maxGapDays", map[string]any{"maxGapDays": v})
			return in, false
		}
		in.MaxGapDays = n
	}
	if v := q.Get("sendHomeOnWeekends"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid sendHomeOnWeekends", map[string]any{"sendHomeOnWeekends": v})
			return in, false
		}
		in.SendHomeOnWeekends = b
	}
	return in, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
