package scheduling

import (
	"fmt"
	"time"
)

// Office hours, minutes from midnight. Fixed for the single clinic.
const (
	openMinute  = 8 * 60  // 08:00
	closeMinute = 18 * 60 // 18:00
)

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// WithinOfficeHours reports whether a slot starting at start fits the
// clinic's office hours: Monday through Friday, with both the start and
// the end of the slot inside the 08:00-18:00 window. Only the
// time-of-day components are compared against the clock bounds, so a
// start of exactly 08:00 is valid and 17:30 is the last valid start.
// On failure the returned reason is suitable for showing to the caller.
func WithinOfficeHours(start time.Time) (bool, string) {
	if wd := start.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false, "appointments are permitted Monday through Friday only."
	}

	startMin := minuteOfDay(start)
	endMin := minuteOfDay(start.Add(SlotDuration))
	if startMin >= openMinute && endMin <= closeMinute {
		return true, ""
	}
	return false, fmt.Sprintf("the time must be between %s and %s.", formatClock(openMinute), formatClock(closeMinute))
}
