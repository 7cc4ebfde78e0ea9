package scheduling

import (
	"fmt"
	"time"
)

// CheckAvailability reports whether a slot starting at start is free of
// conflicts with the existing set. Cancelled appointments never
// conflict. Two slots conflict when their half-open intervals
// [start, start+30m) intersect; touching endpoints do not conflict, so a
// candidate starting exactly when another slot ends is allowed. The
// first conflicting appointment in iteration order produces the reason.
func CheckAvailability(existing []Appointment, start time.Time) (bool, string) {
	end := start.Add(SlotDuration)

	for _, appt := range existing {
		if appt.Status == StatusCancelled {
			continue
		}
		if start.Before(appt.End()) && end.After(appt.Start.Time) {
			return false, fmt.Sprintf("the time conflicts with %s's appointment.", appt.Patient)
		}
	}
	return true, ""
}
