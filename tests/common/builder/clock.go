//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/window"
)

// Day is the calendar day every builder schedules on unless told otherwise.
var Day = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

// At returns Day at hh:mm UTC.
func At(hour, minute int) time.Time {
	return Day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Window builds [from, to) on Day from "hh:mm" pairs given as hours and minutes.
func Window(fromHour, fromMinute, toHour, toMinute int) window.Window {
	return window.MustNew(At(fromHour, fromMinute), At(toHour, toMinute))
}
