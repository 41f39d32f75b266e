package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates (due dates, birth dates).
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date for the given instant.
func Today(now time.Time) time.Time {
	return DateOf(now)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders an optional date, empty when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return DateOf(*t).Format(DateLayout)
}
