package domain

import (
	"regexp"
	"strings"
)

var (
	leadingCastNumber = regexp.MustCompile(`^\d+\.`)
	trailingDayCount  = regexp.MustCompile(`\s*\(\d+\)`)
)

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeCastName cleans a raw cast-list entry. Call sheets commonly prefix
// names with a cast number ("7. Jane Doe") and suffix a shooting-day count
// ("Jane Doe (3)"); both are stripped before the name is used as an identity.
// Entries split out of comma-separated cells arrive with surrounding
// whitespace, so the trim happens before the prefix strip.
func NormalizeCastName(s string) string {
	s = strings.TrimSpace(s)
	s = leadingCastNumber.ReplaceAllString(s, "")
	s = trailingDayCount.ReplaceAllString(s, "")
	return NormalizeHumanName(s)
}
