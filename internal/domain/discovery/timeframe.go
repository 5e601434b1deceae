// internal/domain/discovery/timeframe.go

package discovery

import (
	"time"
)

// Timeframe is a relative window bounding which items are eligible
type Timeframe string

const (
	TimeframeHour  Timeframe = "1h"
	TimeframeDay   Timeframe = "24h"
	TimeframeWeek  Timeframe = "7d"
	TimeframeMonth Timeframe = "30d"

	DefaultTimeframe = TimeframeDay
)

var timeframeDurations = map[Timeframe]time.Duration{
	TimeframeHour:  time.Hour,
	TimeframeDay:   24 * time.Hour,
	TimeframeWeek:  7 * 24 * time.Hour,
	TimeframeMonth: 30 * 24 * time.Hour,
}

// ParseTimeframe resolves a token. Unknown or empty tokens fall back to 24h.
func ParseTimeframe(token string) Timeframe {
	tf := Timeframe(token)
	if _, ok := timeframeDurations[tf]; ok {
		return tf
	}
	return DefaultTimeframe
}

// Known reports whether the token names a supported window
func (t Timeframe) Known() bool {
	_, ok := timeframeDurations[t]
	return ok
}

// Duration returns the window length, treating unknown values as 24h
func (t Timeframe) Duration() time.Duration {
	if d, ok := timeframeDurations[t]; ok {
		return d
	}
	return timeframeDurations[DefaultTimeframe]
}

// Boundary returns the lower bound for item creation times
func (t Timeframe) Boundary(now time.Time) time.Time {
	return now.Add(-t.Duration())
}
