package appointments

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nailit-studio/nailit-scheduler/internal/calendar"
	"github.com/nailit-studio/nailit-scheduler/internal/clients"
	"github.com/nailit-studio/nailit-scheduler/internal/observability/metrics"
	"github.com/nailit-studio/nailit-scheduler/internal/settings"
	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

var appointmentsTracer = otel.Tracer("nailit.internal.appointments")

// CalendarWarning is surfaced to callers when an appointment was saved but
// its calendar mirror failed. The booking itself always wins.
const CalendarWarning = "appointment saved, but the calendar event could not be synced"

// ThresholdNotifier runs inventory threshold checks after completions.
type ThresholdNotifier interface {
	EvaluateAndNotify(ctx context.Context, treatment string) error
}

// Service coordinates booking, the status machine, calendar mirroring and
// inventory notifications.
type Service struct {
	repo     Repository
	clients  clients.Repository
	settings settings.Store
	calendar calendar.Service
	notifier ThresholdNotifier
	metrics  *metrics.SchedulerMetrics
	logger   *logging.Logger
}

// NewService constructs an appointments service. The calendar service and
// the notifier are optional; when nil the corresponding side effects are
// skipped.
func NewService(repo Repository, clientsRepo clients.Repository, store settings.Store, cal calendar.Service, notifier ThresholdNotifier, m *metrics.SchedulerMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if clientsRepo == nil {
		panic("appointments: clients repository required")
	}
	if store == nil {
		panic("appointments: settings store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		clients:  clientsRepo,
		settings: store,
		calendar: cal,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Schedule books a new appointment after the conflict check passes. The
// returned warning is non-empty when the booking succeeded but the calendar
// mirror did not.
func (s *Service) Schedule(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, string, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.schedule")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, "", err
	}
	span.SetAttributes(
		attribute.String("nailit.client_id", req.ClientID),
		attribute.String("nailit.type", string(req.Type)),
	)

	conflict, err := s.repo.HasConflict(ctx, req.StartTime, req.DurationMinutes)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	if conflict {
		s.metrics.ObserveConflict()
		return nil, "", ErrConflict
	}

	appt, err := s.repo.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	s.metrics.ObserveAppointment("created", string(appt.Type))
	s.logger.Info("appointment scheduled", "appointment_id", appt.ID, "client_id", appt.ClientID, "type", appt.Type, "start", appt.StartTime)

	warning := s.mirrorCreate(ctx, appt)
	return appt, warning, nil
}

// MarkDone completes a scheduled appointment and triggers the inventory
// threshold check. A notification failure never rolls the completion back.
func (s *Service) MarkDone(ctx context.Context, id string) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.mark_done")
	defer span.End()
	span.SetAttributes(attribute.String("nailit.appointment_id", id))

	appt, err := s.repo.UpdateStatus(ctx, id, StatusDone)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveAppointment("completed", string(appt.Type))
	s.logger.Info("appointment completed", "appointment_id", appt.ID, "type", appt.Type)

	if s.notifier != nil {
		if err := s.notifier.EvaluateAndNotify(ctx, string(appt.Type)); err != nil {
			s.logger.Error("inventory check failed after completion", "error", err, "appointment_id", appt.ID)
		}
	}
	return appt, nil
}

// MarkCanceled cancels a scheduled appointment. The slot is freed for new
// bookings and any mirrored calendar event is retitled, best effort.
func (s *Service) MarkCanceled(ctx context.Context, id string) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.mark_canceled")
	defer span.End()
	span.SetAttributes(attribute.String("nailit.appointment_id", id))

	appt, err := s.repo.UpdateStatus(ctx, id, StatusCanceled)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveAppointment("canceled", string(appt.Type))
	s.logger.Info("appointment canceled", "appointment_id", appt.ID, "type", appt.Type)

	s.mirrorCancel(ctx, appt)
	return appt, nil
}

// GetByID fetches a single appointment.
func (s *Service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListRange returns the agenda for [from, to].
func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	return s.repo.ListRange(ctx, from, to)
}

// LinkCalendarEvent records an externally created calendar event against an
// appointment without calling the calendar backend.
func (s *Service) LinkCalendarEvent(ctx context.Context, id, eventID string) error {
	return s.repo.SetCalendarEventID(ctx, id, eventID)
}

// SyncCalendarEvent re-attempts the calendar mirror for an appointment,
// creating the event when none is linked or retitling the existing one.
func (s *Service) SyncCalendarEvent(ctx context.Context, id string) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.sync_calendar")
	defer span.End()
	span.SetAttributes(attribute.String("nailit.appointment_id", id))

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	calendarID, err := s.calendarID(ctx)
	if err != nil {
		return nil, err
	}
	if s.calendar == nil || calendarID == "" {
		return nil, calendar.ErrNoCalendar
	}

	title, err := s.eventTitle(ctx, appt)
	if err != nil {
		return nil, err
	}

	if appt.CalendarEventID == "" {
		eventID, err := s.calendar.CreateEvent(ctx, calendarID, title, appt.StartTime, appt.End())
		if err != nil {
			s.metrics.ObserveCalendarFailure("create")
			return nil, err
		}
		if err := s.repo.SetCalendarEventID(ctx, appt.ID, eventID); err != nil {
			return nil, err
		}
		appt.CalendarEventID = eventID
		return appt, nil
	}

	if err := s.calendar.UpdateEventTitle(ctx, calendarID, appt.CalendarEventID, title); err != nil {
		s.metrics.ObserveCalendarFailure("retitle")
		return nil, err
	}
	return appt, nil
}

// mirrorCreate pushes a freshly booked appointment into the external
// calendar. Failures are logged and reported as a warning, never as an error.
func (s *Service) mirrorCreate(ctx context.Context, appt *Appointment) string {
	calendarID, err := s.calendarID(ctx)
	if err != nil {
		s.logger.Error("calendar mirror skipped: settings read failed", "error", err, "appointment_id", appt.ID)
		return CalendarWarning
	}
	if s.calendar == nil || calendarID == "" {
		return ""
	}

	title, err := s.eventTitle(ctx, appt)
	if err != nil {
		s.logger.Error("calendar mirror skipped: client lookup failed", "error", err, "appointment_id", appt.ID)
		s.metrics.ObserveCalendarFailure("create")
		return CalendarWarning
	}

	eventID, err := s.calendar.CreateEvent(ctx, calendarID, title, appt.StartTime, appt.End())
	if err != nil {
		s.logger.Error("calendar event creation failed", "error", err, "appointment_id", appt.ID)
		s.metrics.ObserveCalendarFailure("create")
		return CalendarWarning
	}
	if eventID == "" {
		return ""
	}
	if err := s.repo.SetCalendarEventID(ctx, appt.ID, eventID); err != nil {
		s.logger.Error("failed to link calendar event", "error", err, "appointment_id", appt.ID, "event_id", eventID)
		return CalendarWarning
	}
	appt.CalendarEventID = eventID
	return ""
}

// mirrorCancel retitles the mirrored event with a canceled prefix.
func (s *Service) mirrorCancel(ctx context.Context, appt *Appointment) {
	if s.calendar == nil || appt.CalendarEventID == "" {
		return
	}
	calendarID, err := s.calendarID(ctx)
	if err != nil || calendarID == "" {
		return
	}
	title, err := s.eventTitle(ctx, appt)
	if err != nil {
		s.logger.Error("calendar retitle skipped: client lookup failed", "error", err, "appointment_id", appt.ID)
		return
	}
	if err := s.calendar.UpdateEventTitle(ctx, calendarID, appt.CalendarEventID, title); err != nil {
		s.logger.Error("calendar event retitle failed", "error", err, "appointment_id", appt.ID, "event_id", appt.CalendarEventID)
		s.metrics.ObserveCalendarFailure("retitle")
	}
}

func (s *Service) calendarID(ctx context.Context) (string, error) {
	return s.settings.Get(ctx, settings.KeyCalendarID)
}

// eventTitle resolves the client name and builds the mirrored event title,
// applying the canceled prefix for canceled appointments.
func (s *Service) eventTitle(ctx context.Context, appt *Appointment) (string, error) {
	name := appt.ClientName
	if name == "" {
		client, err := s.clients.GetByID(ctx, appt.ClientID)
		if err != nil {
			return "", err
		}
		name = client.Name
	}
	title := calendar.EventTitle(string(appt.Type), name)
	if appt.Status == StatusCanceled {
		title = calendar.CanceledTitle(title)
	}
	return title, nil
}
