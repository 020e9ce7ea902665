package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	memclock "github.com/castcall/travel-planner-api/internal/adapters/memory/clock"
	memprojectrepo "github.com/castcall/travel-planner-api/internal/adapters/memory/projectrepo"
	"github.com/castcall/travel-planner-api/internal/app/projects"
)

func newTestRouter() http.Handler {
	repo := memprojectrepo.NewRepo()
	clk := memclock.NewManualClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := projects.NewService(repo, clk)
	return NewRouter(NewServer(svc, clk))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body=%q)", err, rec.Body.String())
	}
}

func createProject(t *testing.T, h http.Handler, name string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/projects", map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: status=%d body=%q", rec.Code, rec.Body.String())
	}
	var p struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &p)
	if p.ID == "" {
		t.Fatalf("create project: empty id")
	}
	return p.ID
}

func seedBerlinProject(t *testing.T, h http.Handler) string {
	t.Helper()
	id := createProject(t, h, "Winter Shoot")
	if rec := doJSON(t, h, http.MethodPut, "/projects/"+id+"/home-locations", map[string]any{
		"homeLocations": []string{"Local", "Berlin"},
	}); rec.Code != http.StatusOK {
		t.Fatalf("set home locations: status=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, h, http.MethodPut, "/projects/"+id+"/schedule", map[string]any{
		"records": []map[string]string{
			{"member": "Jane Doe", "date": "06.01.2026"},
			{"member": "Jane Doe", "date": "08.01.2026"},
		},
	}); rec.Code != http.StatusOK {
		t.Fatalf("replace schedule: status=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, h, http.MethodPut, "/projects/"+id+"/periods", map[string]any{
		"periods": []map[string]string{
			{"name": "Berlin Block", "location": "Berlin", "startDate": "01.01.2026", "endDate": "31.01.2026"},
		},
	}); rec.Code != http.StatusOK {
		t.Fatalf("replace periods: status=%d body=%q", rec.Code, rec.Body.String())
	}
	return id
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestProjectCRUD(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	id := createProject(t, h, "Winter Shoot")

	rec := doJSON(t, h, http.MethodGet, "/projects/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status=%d", rec.Code)
	}
	var got struct {
		Name          string   `json:"name"`
		HomeLocations []string `json:"homeLocations"`
	}
	decodeBody(t, rec, &got)
	if got.Name != "Winter Shoot" || len(got.HomeLocations) != 2 {
		t.Fatalf("get body=%+v", got)
	}

	rec = doJSON(t, h, http.MethodPatch, "/projects/"+id, map[string]any{"name": "Renamed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status=%d body=%q", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &got)
	if got.Name != "Renamed" {
		t.Fatalf("patch name=%q", got.Name)
	}

	// Explicit null name is rejected with the error envelope.
	req := httptest.NewRequest(http.MethodPatch, "/projects/"+id, strings.NewReader(`{"name":null}`))
	req.Header.Set("Content-Type", "application/json")
	nrec := httptest.NewRecorder()
	h.ServeHTTP(nrec, req)
	if nrec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("patch null: status=%d body=%q", nrec.Code, nrec.Body.String())
	}
	var envelope struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	decodeBody(t, nrec, &envelope)
	if envelope.Error.Code != "VALIDATION_ERROR" || envelope.Error.RequestID == "" {
		t.Fatalf("error envelope=%+v", envelope)
	}

	rec = doJSON(t, h, http.MethodGet, "/projects", nil)
	var list struct {
		Projects []json.RawMessage `json:"projects"`
	}
	decodeBody(t, rec, &list)
	if len(list.Projects) != 1 {
		t.Fatalf("list len=%d", len(list.Projects))
	}

	rec = doJSON(t, h, http.MethodDelete, "/projects/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status=%d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/projects/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status=%d", rec.Code)
	}
}

func TestReplaceScheduleFromCSV(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	id := createProject(t, h, "P")

	csvBody := "SHOOTING DATE,CAST\n05.01.2026,\"1. Jane Doe (3), 2. John Smith\"\n"
	req := httptest.NewRequest(http.MethodPut, "/projects/"+id+"/schedule", strings.NewReader(csvBody))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv upload: status=%d body=%q", rec.Code, rec.Body.String())
	}
	var got struct {
		Schedule []struct {
			Member string `json:"member"`
			Date   string `json:"date"`
		} `json:"schedule"`
		CastSettings []struct {
			Member string `json:"member"`
		} `json:"castSettings"`
	}
	decodeBody(t, rec, &got)
	if len(got.Schedule) != 2 || got.Schedule[0].Member != "Jane Doe" || got.Schedule[0].Date != "05.01.2026" {
		t.Fatalf("schedule=%+v", got.Schedule)
	}
	if len(got.CastSettings) != 2 {
		t.Fatalf("castSettings=%+v", got.CastSettings)
	}
}

func TestUpdateCastSetting(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	id := seedBerlinProject(t, h)

	member := url.PathEscape("Jane Doe")
	rec := doJSON(t, h, http.MethodPatch, "/projects/"+id+"/cast/"+member, map[string]any{
		"include":      false,
		"homeLocation": "Berlin",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch cast: status=%d body=%q", rec.Code, rec.Body.String())
	}
	var got struct {
		CastSettings []struct {
			Member       string `json:"member"`
			Include      bool   `json:"include"`
			HomeLocation string `json:"homeLocation"`
		} `json:"castSettings"`
	}
	decodeBody(t, rec, &got)
	if len(got.CastSettings) != 1 || got.CastSettings[0].Include || got.CastSettings[0].HomeLocation != "Berlin" {
		t.Fatalf("castSettings=%+v", got.CastSettings)
	}

	rec = doJSON(t, h, http.MethodPatch, "/projects/"+id+"/cast/Nobody", map[string]any{"include": true})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown member: status=%d", rec.Code)
	}
}

func TestSetHomeLocationsRequiresLocal(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	id := createProject(t, h, "P")

	rec := doJSON(t, h, http.MethodPut, "/projects/"+id+"/home-locations", map[string]any{
		"homeLocations": []string{"Berlin"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rec.Code)
	}
}

func TestComputePlan(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	id := seedBerlinProject(t, h)

	rec := doJSON(t, h, http.MethodPost, "/projects/"+id+"/plan", map[string]any{
		"maxGapDays":      7,
		"arrivalPolicy":   "DAY_BEFORE_SHOOTING",
		"departurePolicy": "DAY_AFTER_SHOOTING",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("plan: status=%d body=%q", rec.Code, rec.Body.String())
	}
	var got struct {
		Summaries []struct {
			Member         string `json:"member"`
			TravelDays     int    `json:"travelDays"`
			RequiresTravel bool   `json:"requiresTravel"`
		} `json:"summaries"`
		ExportRecords []struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		} `json:"exportRecords"`
		CalendarEvents []struct {
			Title string `json:"title"`
			Start string `json:"start"`
		} `json:"calendarEvents"`
		Empty bool `json:"empty"`
	}
	decodeBody(t, rec, &got)
	if got.Empty || len(got.Summaries) != 1 || !got.Summaries[0].RequiresTravel {
		t.Fatalf("plan body=%+v", got)
	}
	if len(got.ExportRecords) != 1 || got.ExportRecords[0].StartDate != "05.01.2026" || got.ExportRecords[0].EndDate != "09.01.2026" {
		t.Fatalf("exportRecords=%+v", got.ExportRecords)
	}
	if len(got.CalendarEvents) == 0 || got.CalendarEvents[0].Title != "Travel to Berlin Block" {
		t.Fatalf("calendarEvents=%+v", got.CalendarEvents)
	}

	rec = doJSON(t, h, http.MethodPost, "/projects/"+id+"/plan", map[string]any{
		"maxGapDays":      -1,
		"arrivalPolicy":   "DAY_BEFORE_SHOOTING",
		"departurePolicy": "DAY_AFTER_SHOOTING",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid plan params: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestExportEndpoints(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	id := seedBerlinProject(t, h)

	query := "maxGapDays=7&arrivalPolicy=DAY_BEFORE_SHOOTING&departurePolicy=DAY_AFTER_SHOOTING"

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/projects/%s/plan/export.csv?%s", id, query), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export.csv: status=%d body=%q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("export.csv content type=%q", ct)
	}
	if !strings.Contains(rec.Body.String(), "travel tickets") {
		t.Fatalf("export.csv body=%q", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/projects/%s/plan/calendar.ics?%s", id, query), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar.ics: status=%d body=%q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("calendar.ics content type=%q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") || !strings.Contains(body, "SUMMARY:Travel to Berlin Block") {
		t.Fatalf("calendar.ics body=%q", body)
	}

	// Member filter narrows the calendar.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/projects/%s/plan/calendar.ics?%s&member=%s", id, query, url.QueryEscape("Nobody")), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered calendar.ics: status=%d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "BEGIN:VEVENT") {
		t.Fatalf("filtered calendar should have no events: %q", rec.Body.String())
	}
}
