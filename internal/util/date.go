package util

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// startOfDay returns midnight of t's day in the local timezone.
func startOfDay(t time.Time) time.Time {
	localTime := t.Local()
	return time.Date(localTime.Year(), localTime.Month(), localTime.Day(), 0, 0, 0, 0, time.Local)
}

// ParseDateLocal parses a YYYY-MM-DD string as the start of that day in local time.
func ParseDateLocal(dateStr string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, dateStr, time.Local)
}

// ValidateNotFutureDate rejects dates after today. Only the calendar day is
// compared; today is allowed.
func ValidateNotFutureDate(d time.Time) error {
	if startOfDay(d).After(startOfDay(time.Now())) {
		return fmt.Errorf("date cannot be in the future")
	}
	return nil
}

// ParseSince parses an optional --since filter. An empty string means no filter.
func ParseSince(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := ParseDateLocal(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	if err := ValidateNotFutureDate(d); err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// FormatDate renders t as a local YYYY-MM-DD HH:MM string for tables.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
