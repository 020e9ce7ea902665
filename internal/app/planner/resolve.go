package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/castcall/travel-planner-api/internal/domain"
)

// BuildPlan runs one full planning pass: period assignment, cast filtering,
// stay-period grouping, and per-period derivation. It is deterministic and
// has no side effects; re-running on identical inputs yields an identical
// plan.
func BuildPlan(records []domain.ShootingRecord, p Parameters) (domain.Plan, error) {
	if err := p.Validate(); err != nil {
		return domain.Plan{}, err
	}

	plan := domain.Plan{
		Summaries:      []domain.TravelSummary{},
		StayPeriods:    []domain.StayPeriod{},
		ExportRecords:  []domain.ExportRecord{},
		CalendarEvents: []domain.CalendarEvent{},
		Diagnostics:    []string{},
	}

	periods, diags := usablePeriods(p.Periods)
	plan.Diagnostics = append(plan.Diagnostics, diags...)

	annotated := AnnotateGaps(records)
	groups, keys := groupRecords(annotated, p, periods)

	for _, key := range keys {
		dates := groups[key]

		summary := domain.TravelSummary{
			Member:         key.member,
			HomeLocation:   key.home,
			RequiresTravel: key.travel,
		}

		for _, sp := range splitStayPeriods(key, dates, p.MaxGapDays) {
			sp = deriveStayPeriod(sp, p)
			plan.StayPeriods = append(plan.StayPeriods, sp)
			plan.CalendarEvents = append(plan.CalendarEvents, calendarEventsFor(sp)...)

			if sp.RequiresTravel {
				summary.TravelDays += sp.TravelDays
				summary.AccommodationNights += sp.AccommodationNights
				plan.ExportRecords = append(plan.ExportRecords, exportRecordFor(sp))
			}
		}

		plan.Summaries = append(plan.Summaries, summary)
	}

	return plan, nil
}

type groupKey struct {
	member string
	home   string
	period string
	travel bool
}

// groupRecords filters the annotated schedule by cast settings, assigns each
// date its shooting period, and partitions dates by (member, home location,
// period name, travel required). The annotator already normalized and sorted
// the dates per member, so each group's dates come out ascending. Keys come
// back in deterministic order.
func groupRecords(records []domain.GapRecord, p Parameters, periods []domain.ShootingPeriod) (map[groupKey][]time.Time, []groupKey) {
	groups := make(map[groupKey][]time.Time)
	for _, r := range records {
		setting, ok := p.CastSettings[r.Member]
		if !ok || !setting.Include {
			continue
		}
		date := r.Date

		name, location, matched := resolvePeriod(periods, date)
		travel := matched && !strings.EqualFold(setting.HomeLocation, location)

		key := groupKey{member: r.Member, home: setting.HomeLocation, period: name, travel: travel}
		groups[key] = append(groups[key], date)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.member != b.member {
			return a.member < b.member
		}
		if a.home != b.home {
			return a.home < b.home
		}
		if a.period != b.period {
			return a.period < b.period
		}
		return !a.travel && b.travel
	})
	return groups, keys
}

// resolvePeriod scans definitions in order and returns the first whose
// inclusive range contains the date. First match wins on overlapping ranges.
func resolvePeriod(periods []domain.ShootingPeriod, date time.Time) (name, location string, matched bool) {
	for _, p := range periods {
		if p.Contains(date) {
			return p.Name, p.Location, true
		}
	}
	return "", "", false
}

// usablePeriods drops definitions whose dates are unset or reversed,
// surfacing a diagnostic for each instead of failing the pass.
func usablePeriods(periods []domain.ShootingPeriod) ([]domain.ShootingPeriod, []string) {
	out := make([]domain.ShootingPeriod, 0, len(periods))
	var diags []string
	for _, p := range periods {
		if p.Start.IsZero() || p.End.IsZero() {
			diags = append(diags, fmt.Sprintf("skipping shooting period %q: missing start or end date", p.Name))
			continue
		}
		if p.End.Before(p.Start) {
			diags = append(diags, fmt.Sprintf("skipping shooting period %q: end date precedes start date", p.Name))
			continue
		}
		cp := p
		cp.Start = domain.Day(p.Start)
		cp.End = domain.Day(p.End)
		out = append(out, cp)
	}
	return out, diags
}

// splitStayPeriods partitions a group's sorted dates into stay periods.
// A new period starts whenever the local gap (days strictly between
// consecutive dates in the group) reaches maxGap. The comparison is >=:
// a gap exactly at the threshold already splits. The first date carries a
// clamped gap of 0, so a threshold of 0 puts every date in its own period
// and numbering starts at 1; with a positive threshold it starts at 0.
func splitStayPeriods(key groupKey, dates []time.Time, maxGap int) []domain.StayPeriod {
	var out []domain.StayPeriod
	number := 0
	for i, date := range dates {
		gap := 0
		if i > 0 {
			gap = gapDays(dates[i-1], date)
		}
		if gap >= maxGap {
			number++
		}
		if len(out) == 0 || out[len(out)-1].Number != number {
			out = append(out, domain.StayPeriod{
				Member:         key.member,
				HomeLocation:   key.home,
				PeriodName:     key.period,
				Number:         number,
				RequiresTravel: key.travel,
			})
		}
		last := &out[len(out)-1]
		last.ShootingDates = append(last.ShootingDates, date)
	}
	return out
}

// deriveStayPeriod computes arrival/departure, travel days, accommodation
// nights, and gap dates for one stay period.
func deriveStayPeriod(sp domain.StayPeriod, p Parameters) domain.StayPeriod {
	first := sp.ShootingDates[0]
	last := sp.ShootingDates[len(sp.ShootingDates)-1]

	if !sp.RequiresTravel {
		sp.ArrivalDate = first
		sp.DepartureDate = last
		sp.GapDates = gapDatesInSpan(first, last, sp.ShootingDates)
		return sp
	}

	arrival := first
	if p.ArrivalPolicy == domain.ArrivalDayBefore {
		arrival = first.AddDate(0, 0, -1)
	}
	departure := last
	if p.DeparturePolicy == domain.DepartureDayAfter {
		departure = last.AddDate(0, 0, 1)
	}

	// Arrival and departure are each a travel day, deduplicated when they
	// coincide (single shooting date with same-day policies on both ends).
	sp.TravelDays = 2
	if departure.Equal(arrival) {
		sp.TravelDays = 1
	}

	sp.ArrivalDate = arrival
	sp.DepartureDate = departure
	sp.AccommodationNights = domain.DaysBetween(arrival, departure)
	sp.GapDates = gapDatesInSpan(arrival, departure, sp.ShootingDates)
	return sp
}

// gapDatesInSpan returns the calendar dates strictly between start and end
// that are not shooting dates. The endpoints themselves are travel (or
// first/last shooting) days, never gap days.
func gapDatesInSpan(start, end time.Time, shooting []time.Time) []time.Time {
	isShooting := make(map[time.Time]bool, len(shooting))
	for _, d := range shooting {
		isShooting[d] = true
	}
	var out []time.Time
	for d := start.AddDate(0, 0, 1); d.Before(end); d = d.AddDate(0, 0, 1) {
		if !isShooting[d] {
			out = append(out, d)
		}
	}
	return out
}

// displayPeriodName is what event titles and export rows call a period; an
// unmatched (local) period renders as "Local".
func displayPeriodName(name string) string {
	if name == "" {
		return domain.HomeLocationLocal
	}
	return name
}

func calendarEventsFor(sp domain.StayPeriod) []domain.CalendarEvent {
	name := displayPeriodName(sp.PeriodName)
	var out []domain.CalendarEvent

	allDay := func(member, title, desc, location string, date time.Time) domain.CalendarEvent {
		return domain.CalendarEvent{
			Member:      member,
			Title:       title,
			Start:       date,
			End:         date,
			Description: desc,
			Location:    location,
			AllDay:      true,
		}
	}

	if sp.RequiresTravel {
		out = append(out, allDay(sp.Member,
			fmt.Sprintf("Travel to %s", name),
			fmt.Sprintf("Travel from %s to %s", sp.HomeLocation, name),
			name, sp.ArrivalDate))
	}
	for _, d := range sp.ShootingDates {
		out = append(out, allDay(sp.Member,
			fmt.Sprintf("Shooting in %s", name),
			fmt.Sprintf("Shooting day in %s", name),
			name, d))
	}
	for _, d := range sp.GapDates {
		out = append(out, allDay(sp.Member,
			fmt.Sprintf("Gap Day in %s", name),
			fmt.Sprintf("Gap day in %s", name),
			name, d))
	}
	if sp.RequiresTravel {
		out = append(out, allDay(sp.Member,
			fmt.Sprintf("Travel back to %s", sp.HomeLocation),
			fmt.Sprintf("Travel from %s to %s", name, sp.HomeLocation),
			sp.HomeLocation, sp.DepartureDate))
	}
	return out
}

func exportRecordFor(sp domain.StayPeriod) domain.ExportRecord {
	dateRange := fmt.Sprintf("%s–%s", domain.FormatDate(sp.ArrivalDate), domain.FormatDate(sp.DepartureDate))

	// Avoid naming the shooting location twice when it matches the member's
	// home location.
	var description string
	if strings.EqualFold(sp.HomeLocation, sp.PeriodName) {
		description = fmt.Sprintf("%s (%s) travel tickets %s", sp.Member, sp.HomeLocation, dateRange)
	} else {
		description = fmt.Sprintf("%s (%s, %s) travel tickets %s", sp.Member, sp.HomeLocation, sp.PeriodName, dateRange)
	}

	return domain.ExportRecord{
		Member:       sp.Member,
		HomeLocation: sp.HomeLocation,
		PeriodName:   displayPeriodName(sp.PeriodName),
		PeriodNumber: sp.Number,

		Description: description,
		DateRange:   dateRange,
		StartDate:   sp.ArrivalDate,
		EndDate:     sp.DepartureDate,

		ShootingDays:        len(sp.ShootingDates),
		GapDays:             len(sp.GapDates),
		TravelDays:          sp.TravelDays,
		AccommodationNights: sp.AccommodationNights,

		ShootingDates: append([]time.Time(nil), sp.ShootingDates...),

		X:     1,
		FourX: 1,

		RequiresTravel: true,
	}
}
