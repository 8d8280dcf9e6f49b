package models

import (
	"math"
	"time"
)

// referenceZone is the institution's time zone, used for remaining-time
// display.
const referenceZone = "Africa/Accra"

// ComputeTime splits an election period in hours (fractional allowed) into
// whole days, hours, and minutes.
func ComputeTime(periodHours float64) (days, hours, minutes int) {
	days = int(periodHours) / 24
	rem := periodHours - float64(days*24)
	hours = int(rem)
	minutes = int(math.Round((rem - float64(hours)) * 60))
	return days, hours, minutes
}

// Duration converts the election period into a time.Duration.
func (e Election) Duration() time.Duration {
	days, hours, minutes := ComputeTime(e.ElectionPeriod)
	return time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute
}

// EndDate is the election start plus its period.
func (e Election) EndDate() time.Time {
	return e.ElectionStartDate.Add(e.Duration())
}

// RemainingTime renders how long the election still runs relative to the
// reference time zone. Elections past their end date report zero.
func (e Election) RemainingTime(now time.Time) string {
	if loc, err := time.LoadLocation(referenceZone); err == nil {
		now = now.In(loc)
	}
	remaining := e.EndDate().Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining.Round(time.Minute).String()
}
