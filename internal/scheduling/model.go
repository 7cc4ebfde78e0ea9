// Package scheduling implements the clinic's appointment book: office
// hours validation, slot conflict detection, and the schedule / cancel /
// list operations over a load-mutate-save repository.
package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Appointment statuses. The only transition is scheduled -> cancelled;
// records are never deleted.
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
)

// SlotDuration is the fixed length of every appointment.
const SlotDuration = 30 * time.Minute

// StartLayout is the round-trippable wire format for appointment starts.
// Naive local time, no zone.
const StartLayout = "2006-01-02T15:04"

// Timestamp wraps time.Time so appointment starts marshal in StartLayout
// instead of RFC 3339.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to minute precision, the resolution of the
// wire format.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Truncate(time.Minute)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(StartLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := time.Parse(StartLayout, raw)
	if err != nil {
		return fmt.Errorf("scheduling: parse start %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

// Appointment is a single booked slot in the clinic's book.
type Appointment struct {
	ID              int       `json:"id"`
	Patient         string    `json:"patient"`
	Start           Timestamp `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
}

// End returns the exclusive end of the appointment's slot.
func (a Appointment) End() time.Time {
	return a.Start.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Repository is the persistence contract. The full appointment set is
// the ground truth: every operation loads it, mutates it in memory, and
// saves it back. Load returns an empty set, not an error, when no state
// has been persisted yet.
type Repository interface {
	Load(ctx context.Context) ([]Appointment, error)
	Save(ctx context.Context, appointments []Appointment) error
}
