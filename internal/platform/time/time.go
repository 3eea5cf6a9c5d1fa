// Package time contains the timestamp helpers shared by adapters and repos
package time

import (
	"strings"
	"time"
)

// Ptr returns a pointer to t or nil if t is zero, for nullable timestamp columns
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ParseUTC reads an RFC3339 timestamp (fractional seconds allowed) and returns it in UTC
func ParseUTC(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// HoursBack is the UTC instant hours before now
func HoursBack(now time.Time, hours int) time.Time {
	return now.UTC().Add(-time.Duration(hours) * time.Hour)
}
