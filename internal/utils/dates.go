package utils

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Rental date semantics: every booking consumes whole calendar days.
// The pickup boundary is pinned to 00:00:00.000 and the return boundary
// to 23:59:59.999 of the requested days, which makes same-day rentals
// valid and keeps the search path and the reservation path comparing
// the exact same intervals.

// ErrInvalidDate is returned when a date string cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts the formats the front end produces: a bare
// "YYYY-MM-DD" from date inputs, or a full RFC3339 timestamp. The
// result is interpreted in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

// NormalizePickup truncates t to 00:00:00.000 UTC of its calendar day.
func NormalizePickup(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeReturn pins t to 23:59:59.999 UTC of its calendar day.
func NormalizeReturn(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, time.UTC)
}

// RentalDays computes the number of billable days between a normalized
// pickup and return: ceil of the spanned duration with a floor of one
// day. With the 00:00/23:59:59.999 normalization a single calendar day
// yields 1 and an inclusive three-day span yields 3.
func RentalDays(pickup, ret time.Time) int {
	diff := ret.Sub(pickup)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}
