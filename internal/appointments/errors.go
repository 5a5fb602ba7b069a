package appointments

import "errors"

var (
	// ErrInvalidDuration is returned when duration_minutes is not positive
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")

	// ErrInvalidType is returned for an unknown treatment type
	ErrInvalidType = errors.New("treatment type must be manicure, pedicure or both")

	// ErrUnknownClient is returned when the owning client does not exist
	ErrUnknownClient = errors.New("client does not exist")

	// ErrAppointmentNotFound is returned when an appointment is not found
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned when a terminal appointment is re-marked
	ErrInvalidTransition = errors.New("appointment status transition not allowed")

	// ErrConflict is returned when a candidate slot overlaps an existing appointment
	ErrConflict = errors.New("appointment overlaps an existing appointment")
)
