// Package hours answers whether the business is open at a given time.
package hours

import "time"

// Schedule is a daily opening window in whole hours. A CloseHour at or before
// OpenHour means the window runs past midnight.
type Schedule struct {
	OpenHour  int
	CloseHour int
}

// Default is 15:00 to 02:00.
var Default = Schedule{OpenHour: 15, CloseHour: 2}

// IsOpen reports whether t falls inside the schedule, using t's own location.
func (s Schedule) IsOpen(t time.Time) bool {
	h := t.Hour()
	if s.CloseHour > s.OpenHour {
		return h >= s.OpenHour && h < s.CloseHour
	}
	return h >= s.OpenHour || h < s.CloseHour
}
