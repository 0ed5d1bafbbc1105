// Package workweek is the single shared implementation of the maintenance
// period label. Alerts, weekly entry, and logs must all agree on week
// boundaries, so nothing else in the codebase derives a week from a date.
package workweek

import (
	"fmt"
	"regexp"
	"time"
)

var labelRe = regexp.MustCompile(`^\d{4}-WW\d{2}$`)

// Label returns the ISO-8601 work week label for a date, e.g. "2025-WW14".
// The year is the ISO week-year: a late-December date can land in week 01 of
// the following year, and an early-January date in week 52/53 of the previous.
func Label(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-WW%02d", year, week)
}

// Current returns the label for today.
func Current() string {
	return Label(time.Now())
}

// Valid reports whether s has the "YYYY-WWnn" shape. Stored labels are never
// rewritten, so this is only used to reject malformed request parameters.
func Valid(s string) bool {
	return labelRe.MatchString(s)
}
