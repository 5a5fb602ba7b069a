package appointments

import (
	"strings"
	"time"
)

// Type is the treatment booked for an appointment.
type Type string

const (
	TypeManicure Type = "manicure"
	TypePedicure Type = "pedicure"
	TypeBoth     Type = "both"
)

// Valid reports whether t is a known treatment type.
func (t Type) Valid() bool {
	switch t {
	case TypeManicure, TypePedicure, TypeBoth:
		return true
	}
	return false
}

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusDone      Status = "done"
	StatusCanceled  Status = "canceled"
)

// CanTransitionTo reports whether the status machine permits moving to next.
// Only scheduled appointments may move, and only to a terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusScheduled {
		return false
	}
	return next == StatusDone || next == StatusCanceled
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Appointment represents a booked treatment slot.
type Appointment struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	ClientName      string    `json:"client_name,omitempty"`
	Type            Type      `json:"type"`
	Status          Status    `json:"status"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	TreatmentNotes  string    `json:"treatment_notes,omitempty"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// End returns the exclusive end of the appointment interval.
func (a *Appointment) End() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// CreateAppointmentRequest represents the request body for booking an appointment
type CreateAppointmentRequest struct {
	ClientID        string    `json:"client_id"`
	Type            Type      `json:"type"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	TreatmentNotes  string    `json:"treatment_notes"`
}

// Validate validates the booking request
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.ClientID) == "" {
		return ErrUnknownClient
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if r.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
