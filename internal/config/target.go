// internal/config/target.go
package config

import (
	"fmt"
	"time"
)

// calendarLayout is the long-form date the dashboard has always used.
const calendarLayout = "January 2, 2006 15:04:05"

// ParseTarget resolves a countdown target instant.
// RFC 3339 input carries its own zone; calendar input is read in location
// (empty => time.Local).
func ParseTarget(target, location string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, target); err == nil {
		return t, nil
	}

	loc := time.Local
	if location != "" {
		l, err := time.LoadLocation(location)
		if err != nil {
			return time.Time{}, fmt.Errorf("location %q: %w", location, err)
		}
		loc = l
	}

	t, err := time.ParseInLocation(calendarLayout, target, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("target %q: want RFC 3339 or %q", target, calendarLayout)
	}
	return t, nil
}
