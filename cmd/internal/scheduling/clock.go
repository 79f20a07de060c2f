package scheduling

import (
	"fmt"
	"strings"
	"time"
)

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04:05PM",
}

// ParseClock parses a 24-hour (HH:MM[:SS]) or 12-hour (h:MM[:SS] AM/PM) time
// of day and returns the duration since midnight.
func ParseClock(raw string) (time.Duration, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))

	var firstErr error
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond()), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, fmt.Errorf("time %q is not a 12-hour or 24-hour time of day: %w", raw, firstErr)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not formatted as YYYY-MM-DD: %w", raw, err)
	}
	return d, nil
}
