package eligibility

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DefaultGraceMinutes = 15

var ErrInvalidTimeRange = errors.New("invalid session time range")

const clockLayout = "15:04"

const minutesPerDay = 24 * 60

// SplitTimeRange breaks an "HH:mm - HH:mm" string into its two clock values.
func SplitTimeRange(timeRange string) (string, string, error) {
	parts := strings.Split(timeRange, " - ")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, timeRange)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// WithinWindow reports whether now falls inside the session window after the
// grace period has been applied to both ends. The window carries wall-clock
// times only, so membership is decided on minutes of the day: a raw end
// earlier than the raw start means the session crosses midnight. Both
// boundaries are inclusive at minute granularity. Any parse failure is an
// error and callers must treat it as not eligible.
func WithinWindow(startClock string, endClock string, grace time.Duration, now time.Time) (bool, error) {
	startMin, err := clockMinutes(startClock)
	if err != nil {
		return false, err
	}
	endMin, err := clockMinutes(endClock)
	if err != nil {
		return false, err
	}
	graceMin := int(grace / time.Minute)

	length := endMin - startMin
	if endMin < startMin {
		length += minutesPerDay
	}
	length += 2 * graceMin
	if length >= minutesPerDay {
		// grace stretched the window around the whole clock face
		return true, nil
	}

	effectiveStart := ((startMin-graceMin)%minutesPerDay + minutesPerDay) % minutesPerDay
	effectiveEnd := (endMin + graceMin) % minutesPerDay
	nowMin := now.Hour()*60 + now.Minute()

	if effectiveStart <= effectiveEnd {
		return nowMin >= effectiveStart && nowMin <= effectiveEnd, nil
	}
	return nowMin >= effectiveStart || nowMin <= effectiveEnd, nil
}

// WithinTimeRange is WithinWindow for a combined "HH:mm - HH:mm" value.
func WithinTimeRange(timeRange string, grace time.Duration, now time.Time) (bool, error) {
	startClock, endClock, err := SplitTimeRange(timeRange)
	if err != nil {
		return false, err
	}
	return WithinWindow(startClock, endClock, grace, now)
}

func clockMinutes(clock string) (int, error) {
	parsed, err := time.Parse(clockLayout, strings.TrimSpace(clock))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeRange, clock)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
