// Package icalendar renders plan calendar events as iCalendar documents that
// cast members can subscribe to or import.
package icalendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/castcall/travel-planner-api/internal/domain"
)

const productID = "-//castcall//travel-planner-api//EN"

// Calendar builds one iCalendar holding all given events. The stamp becomes
// each VEVENT's DTSTAMP, so rendering is deterministic for a fixed clock.
func Calendar(events []domain.CalendarEvent, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		ve := cal.AddEvent(eventUID(ev))
		ve.SetDtStampTime(stamp.UTC())
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start)
			// DTEND is exclusive for all-day events.
			ve.SetAllDayEndAt(ev.End.AddDate(0, 0, 1))
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}
	}
	return cal
}

// PerMember builds one calendar per cast member, keyed by member name.
func PerMember(events []domain.CalendarEvent, stamp time.Time) map[string]*ical.Calendar {
	byMember := make(map[string][]domain.CalendarEvent)
	for _, ev := range events {
		byMember[ev.Member] = append(byMember[ev.Member], ev)
	}
	out := make(map[string]*ical.Calendar, len(byMember))
	for member, evs := range byMember {
		out[member] = Calendar(evs, stamp)
	}
	return out
}

// Members lists the distinct members appearing in the events, sorted.
func Members(events []domain.CalendarEvent) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, ev := range events {
		if !seen[ev.Member] {
			seen[ev.Member] = true
			out = append(out, ev.Member)
		}
	}
	sort.Strings(out)
	return out
}

// eventUID is deterministic for a given event so re-exports update rather
// than duplicate entries in subscribing clients.
func eventUID(ev domain.CalendarEvent) string {
	return fmt.Sprintf("%s-%s-%s@travel-planner", slug(ev.Member), ev.Start.Format("20060102"), slug(ev.Title))
}

func slug(s string) string {
	s = strings.ToLower(s)
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
