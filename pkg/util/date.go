package util

import "time"

// ClockUTC formats t as HH:MM:SS in UTC, the wall-clock shape used on
// published signals.
func ClockUTC(t time.Time) string {
	return t.UTC().Format("15:04:05")
}
