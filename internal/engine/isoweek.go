package engine

import "time"

// ISOWeek returns the ISO-8601 week number for a timestamp. Weeks start
// Monday and the week containing the year's first Thursday is week 1, so
// late-December dates can land in week 1 of the following year and early
// January in week 52/53 of the previous one. Statistic rows are keyed by
// this value and must stay stable across year boundaries.
func ISOWeek(t time.Time) int {
	_, week := t.UTC().ISOWeek()
	return week
}
