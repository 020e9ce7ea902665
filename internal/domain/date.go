package domain

import (
	"strings"
	"time"
)

// DateLayout is the textual date form exchanged at every external boundary
// (schedule files, period definitions, API payloads, exports).
const DateLayout = "02.01.2006"

// ParseDate parses a DD.MM.YYYY string into a UTC-midnight time.Time.
// Schedule dates are date-only; time-of-day never enters the domain.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate renders a date in the boundary DD.MM.YYYY form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates an instant to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
