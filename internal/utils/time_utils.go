package utils

import (
	"fmt"
	"time"
)

// DefaultDueTime is applied when a task is created without an explicit time of day.
const DefaultDueTime = "09:00"

const dateOnlyLayout = "2006-01-02"

// ParseDueDate resolves a client-supplied due date into a single timestamp.
// An RFC 3339 value is taken as-is; a plain date is combined with the HH:MM
// due time (or DefaultDueTime when empty) in UTC.
func ParseDueDate(dateValue, dueTime string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, dateValue); err == nil {
		return parsed.UTC(), nil
	}

	day, err := time.Parse(dateOnlyLayout, dateValue)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q", dateValue)
	}

	if dueTime == "" {
		dueTime = DefaultDueTime
	}
	clock, err := time.Parse("15:04", dueTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due time %q", dueTime)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

// FormatLongDate renders a timestamp the way the reminder mails present due
// dates, e.g. "Sunday, June 1, 2025".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}
