package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/castcall/travel-planner-api/internal/domain"
)

// Wire DTOs. Calendar dates cross the boundary as DD.MM.YYYY strings;
// timestamps as RFC 3339.

type projectDTO struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	HomeLocations []string         `json:"homeLocations"`
	CastSettings  []castSettingDTO `json:"castSettings"`
	Periods       []periodDTO      `json:"periods"`
	Schedule      []scheduleRecDTO `json:"schedule"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type castSettingDTO struct {
	Member       string `json:"member"`
	Include      bool   `json:"include"`
	HomeLocation string `json:"homeLocation"`
}

type periodDTO struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type scheduleRecDTO struct {
	Member string `json:"member"`
	Date   string `json:"date"`
}

type createProjectRequest struct {
	Name string `json:"name"`
}

type updateProjectRequest struct {
	Name nullable.Nullable[string] `json:"name,omitempty"`
}

type updateCastSettingRequest struct {
	Include      nullable.Nullable[bool]   `json:"include,omitempty"`
	HomeLocation nullable.Nullable[string] `json:"homeLocation,omitempty"`
}

type homeLocationsRequest struct {
	HomeLocations []string `json:"homeLocations"`
}

type planRequest struct {
	MaxGapDays         int    `json:"maxGapDays"`
	SendHomeOnWeekends bool   `json:"sendHomeOnWeekends"`
	ArrivalPolicy      string `json:"arrivalPolicy"`
	DeparturePolicy    string `json:"departurePolicy"`
}

type planResponse struct {
	Summaries      []summaryDTO       `json:"summaries"`
	ExportRecords  []exportRecordDTO  `json:"exportRecords"`
	CalendarEvents []calendarEventDTO `json:"calendarEvents"`
	Diagnostics    []string           `json:"diagnostics"`
	Empty          bool               `json:"empty"`
}

type summaryDTO struct {
	Member              string `json:"member"`
	HomeLocation        string `json:"homeLocation"`
	TravelDays          int    `json:"travelDays"`
	AccommodationNights int    `json:"accommodationNights"`
	RequiresTravel      bool   `json:"requiresTravel"`
}

type exportRecordDTO struct {
	Member              string   `json:"member"`
	HomeLocation        string   `json:"homeLocation"`
	PeriodName          string   `json:"periodName"`
	PeriodNumber        int      `json:"periodNumber"`
	Description         string   `json:"description"`
	DateRange           string   `json:"dateRange"`
	StartDate           string   `json:"startDate"`
	EndDate             string   `json:"endDate"`
	ShootingDays        int      `json:"shootingDays"`
	GapDays             int      `json:"gapDays"`
	TravelDays          int      `json:"travelDays"`
	AccommodationNights int      `json:"accommodationNights"`
	ShootingDates       []string `json:"shootingDates"`
	RequiresTravel      bool     `json:"requiresTravel"`
}

type calendarEventDTO struct {
	Member      string `json:"member"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	AllDay      bool   `json:"allDay"`
}

func projectFromDomain(p domain.Project) projectDTO {
	out := projectDTO{
		ID:            string(p.ID),
		Name:          p.Name,
		HomeLocations: p.HomeLocations,
		CastSettings:  make([]castSettingDTO, 0, len(p.CastSettings)),
		Periods:       make([]periodDTO, 0, len(p.Periods)),
		Schedule:      make([]scheduleRecDTO, 0, len(p.Schedule)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if out.HomeLocations == nil {
		out.HomeLocations = []string{}
	}
	for _, cs := range p.CastSettings {
		out.CastSettings = append(out.CastSettings, castSettingDTO{
			Member:       cs.Member,
			Include:      cs.Include,
			HomeLocation: cs.HomeLocation,
		})
	}
	for _, per := range p.Periods {
		out.Periods = append(out.Periods, periodDTO{
			Name:      per.Name,
			Location:  per.Location,
			StartDate: domain.FormatDate(per.Start),
			EndDate:   domain.FormatDate(per.End),
		})
	}
	for _, rec := range p.Schedule {
		out.Schedule = append(out.Schedule, scheduleRecDTO{
			Member: rec.Member,
			Date:   domain.FormatDate(rec.Date),
		})
	}
	return out
}

func planFromDomain(p domain.Plan) planResponse {
	out := planResponse{
		Summaries:      make([]summaryDTO, 0, len(p.Summaries)),
		ExportRecords:  make([]exportRecordDTO, 0, len(p.ExportRecords)),
		CalendarEvents: make([]calendarEventDTO, 0, len(p.CalendarEvents)),
		Diagnostics:    p.Diagnostics,
		Empty:          p.Empty(),
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []string{}
	}
	for _, s := range p.Summaries {
		out.Summaries = append(out.Summaries, summaryDTO{
			Member:              s.Member,
			HomeLocation:        s.HomeLocation,
			TravelDays:          s.TravelDays,
			AccommodationNights: s.AccommodationNights,
			RequiresTravel:      s.RequiresTravel,
		})
	}
	for _, r := range p.ExportRecords {
		dates := make([]string, 0, len(r.ShootingDates))
		for _, d := range r.ShootingDates {
			dates = append(dates, domain.FormatDate(d))
		}
		out.ExportRecords = append(out.ExportRecords, exportRecordDTO{
			Member:              r.Member,
			HomeLocation:        r.HomeLocation,
			PeriodName:          r.PeriodName,
			PeriodNumber:        r.PeriodNumber,
			Description:         r.Description,
			DateRange:           r.DateRange,
			StartDate:           domain.FormatDate(r.StartDate),
			EndDate:             domain.FormatDate(r.EndDate),
			ShootingDays:        r.ShootingDays,
			GapDays:             r.GapDays,
			TravelDays:          r.TravelDays,
			AccommodationNights: r.AccommodationNights,
			ShootingDates:       dates,
			RequiresTravel:      r.RequiresTravel,
		})
	}
	for _, ev := range p.CalendarEvents {
		out.CalendarEvents = append(out.CalendarEvents, calendarEventDTO{
			Member:      ev.Member,
			Title:       ev.Title,
			Start:       domain.FormatDate(ev.Start),
			End:         domain.FormatDate(ev.End),
			Description: ev.Description,
			Location:    ev.Location,
			AllDay:      ev.AllDay,
		})
	}
	return out
}
