// Package calendar holds date arithmetic used to bound historical rate queries.
package calendar

import "time"

// LastBusinessDay anchors the end of a historical range.
//
// A Sunday moves back one day to Saturday and a Monday moves back two days to
// Saturday. Every other day, Saturday included, is returned unchanged.
func LastBusinessDay(day time.Time) time.Time {
	if day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, -1)
	}
	if day.Weekday() == time.Monday {
		day = day.AddDate(0, 0, -2)
	}
	return day
}
