package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nailit-studio/nailit-scheduler/internal/calendar"
	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service         *Service
	loc             *time.Location
	defaultDuration int
	logger          *logging.Logger
}

// NewHandler creates a new appointments handler. The location is used to
// resolve the default "today" agenda range; defaultDuration fills in
// bookings that omit duration_minutes.
func NewHandler(service *Service, loc *time.Location, defaultDuration int, logger *logging.Logger) *Handler {
	if service == nil {
		panic("appointments: service required")
	}
	if loc == nil {
		loc = time.Local
	}
	if defaultDuration <= 0 {
		defaultDuration = 60
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, loc: loc, defaultDuration: defaultDuration, logger: logger}
}

// AppointmentResponse wraps an appointment with an optional calendar warning.
type AppointmentResponse struct {
	*Appointment
	CalendarWarning string `json:"calendar_warning,omitempty"`
}

// Create handles POST /appointments requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode appointment request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = h.defaultDuration
	}

	appt, warning, err := h.service.Schedule(r.Context(), &req)
	if err != nil {
		h.writeError(w, "failed to schedule appointment", err)
		return
	}

	writeJSON(w, http.StatusCreated, AppointmentResponse{Appointment: appt, CalendarWarning: warning})
}

// ListResponse is the agenda response.
type ListResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Count        int            `json:"count"`
}

// List handles GET /appointments?from=&to= requests. Without a range it
// returns today's agenda.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.service.ListRange(r.Context(), from, to)
	if err != nil {
		h.writeError(w, "failed to list appointments", err)
		return
	}
	if list == nil {
		list = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Appointments: list, Count: len(list)})
}

// MarkDone handles POST /appointments/{id}/done requests.
func (h *Handler) MarkDone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	appt, err := h.service.MarkDone(r.Context(), id)
	if err != nil {
		h.writeError(w, "failed to complete appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// MarkCanceled handles POST /appointments/{id}/cancel requests.
func (h *Handler) MarkCanceled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	appt, err := h.service.MarkCanceled(r.Context(), id)
	if err != nil {
		h.writeError(w, "failed to cancel appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// UpdateCalendarEventRequest is the body for the calendar-event endpoint.
type UpdateCalendarEventRequest struct {
	EventID string `json:"event_id"`
}

// UpdateCalendarEvent handles PUT /appointments/{id}/calendar-event requests.
// With an event_id it records the linkage; with an empty one it re-attempts
// the mirror against the configured calendar.
func (h *Handler) UpdateCalendarEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateCalendarEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode calendar event request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.EventID != "" {
		if err := h.service.LinkCalendarEvent(r.Context(), id, req.EventID); err != nil {
			h.writeError(w, "failed to link calendar event", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if _, err := h.service.SyncCalendarEvent(r.Context(), id); err != nil {
		h.writeError(w, "failed to sync calendar event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseRange(r *http.Request) (time.Time, time.Time, error) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")

	if fromRaw == "" && toRaw == "" {
		now := time.Now().In(h.loc)
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
		return from, from.Add(24*time.Hour - time.Nanosecond), nil
	}

	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid 'from' timestamp, expected RFC 3339")
	}
	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid 'to' timestamp, expected RFC 3339")
	}
	return from, to, nil
}

func (h *Handler) writeError(w http.ResponseWriter, fallback string, err error) {
	switch {
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrUnknownClient),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidDuration),
		errors.Is(err, calendar.ErrNoCalendar):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(fallback, "error", err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
