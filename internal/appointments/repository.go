package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nailit-studio/nailit-scheduler/internal/clients"
)

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	// ListRange returns appointments whose start time falls inside
	// [from, to], ascending by start time, with client names resolved.
	ListRange(ctx context.Context, from, to time.Time) ([]*Appointment, error)
	// UpdateStatus enforces the scheduled -> done/canceled status machine.
	UpdateStatus(ctx context.Context, id string, next Status) (*Appointment, error)
	SetCalendarEventID(ctx context.Context, id, eventID string) error
	// HasConflict reports whether the candidate interval overlaps any
	// scheduled or done appointment.
	HasConflict(ctx context.Context, start time.Time, durationMinutes int) (bool, error)
	// CountCompleted counts done appointments whose type belongs to the
	// treatment family (the family itself or "both").
	CountCompleted(ctx context.Context, family Type) (int, error)
}

// InMemoryRepository is a Repository backed by a process-local map.
type InMemoryRepository struct {
	mu      sync.RWMutex
	appts   map[string]*Appointment
	clients clients.Repository
}

// NewInMemoryRepository creates an in-memory repository. The clients
// repository is used to verify ownership and resolve names for the agenda.
func NewInMemoryRepository(clientsRepo clients.Repository) *InMemoryRepository {
	return &InMemoryRepository{
		appts:   make(map[string]*Appointment),
		clients: clientsRepo,
	}
}

// Create books a new appointment in scheduled status.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if r.clients != nil {
		if _, err := r.clients.GetByID(ctx, req.ClientID); err != nil {
			return nil, ErrUnknownClient
		}
	}

	appt := &Appointment{
		ID:              uuid.New().String(),
		ClientID:        req.ClientID,
		Type:            req.Type,
		Status:          StatusScheduled,
		StartTime:       req.StartTime.UTC(),
		DurationMinutes: req.DurationMinutes,
		TreatmentNotes:  req.TreatmentNotes,
		UpdatedAt:       time.Now().UTC(),
	}

	r.mu.Lock()
	r.appts[appt.ID] = appt
	r.mu.Unlock()

	return appt, nil
}

// GetByID retrieves an appointment by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	appt, ok := r.appts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	return &cp, nil
}

// ListRange returns the agenda for [from, to], ascending by start time.
func (r *InMemoryRepository) ListRange(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	r.mu.RLock()
	var list []*Appointment
	for _, appt := range r.appts {
		if appt.StartTime.Before(from) || appt.StartTime.After(to) {
			continue
		}
		cp := *appt
		list = append(list, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })

	if r.clients != nil {
		for _, appt := range list {
			if client, err := r.clients.GetByID(ctx, appt.ClientID); err == nil {
				appt.ClientName = client.Name
			}
		}
	}
	return list, nil
}

// UpdateStatus moves a scheduled appointment to a terminal status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, next Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if !appt.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}
	appt.Status = next
	appt.UpdatedAt = time.Now().UTC()
	cp := *appt
	return &cp, nil
}

// SetCalendarEventID updates the external calendar linkage.
func (r *InMemoryRepository) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appts[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	appt.CalendarEventID = eventID
	appt.UpdatedAt = time.Now().UTC()
	return nil
}

// HasConflict checks the candidate interval against scheduled and done appointments.
func (r *InMemoryRepository) HasConflict(ctx context.Context, start time.Time, durationMinutes int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, appt := range r.appts {
		if !blocksSlot(appt.Status) {
			continue
		}
		if Overlaps(appt.StartTime, appt.DurationMinutes, start, durationMinutes) {
			return true, nil
		}
	}
	return false, nil
}

// CountCompleted counts done appointments in the treatment family.
func (r *InMemoryRepository) CountCompleted(ctx context.Context, family Type) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, appt := range r.appts {
		if appt.Status != StatusDone {
			continue
		}
		if appt.Type == family || appt.Type == TypeBoth {
			count++
		}
	}
	return count, nil
}
