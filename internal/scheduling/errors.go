package scheduling

import "errors"

// Validation failures are recoverable: the caller re-prompts and no
// persisted state is touched.
var (
	// ErrInvalidDateTime is returned when the date or time input does
	// not parse as YYYY-MM-DD / HH:MM.
	ErrInvalidDateTime = errors.New("invalid date or time format; use YYYY-MM-DD and HH:MM.")

	// ErrPatientRequired is returned when the patient name is blank.
	ErrPatientRequired = errors.New("patient name is required.")

	// ErrNotFound is returned by Cancel when no scheduled appointment
	// matches the id. An id that was already cancelled and an id that
	// never existed deliberately share this one message.
	ErrNotFound = errors.New("appointment not found or already cancelled.")
)

// OutOfHoursError rejects a timestamp that falls outside office hours.
type OutOfHoursError struct {
	Reason string
}

func (e *OutOfHoursError) Error() string { return e.Reason }

// ConflictError rejects a slot that overlaps a scheduled appointment.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }
