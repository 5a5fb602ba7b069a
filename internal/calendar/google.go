package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

// GoogleService mirrors events into a Google Calendar.
type GoogleService struct {
	events  *gcal.EventsService
	timeout time.Duration
	logger  *logging.Logger
}

// NewGoogleService creates a calendar service authenticated with a service
// account credentials file. Returns nil when no credentials are configured.
// A positive timeout bounds each mirror call.
func NewGoogleService(ctx context.Context, credentialsFile string, timeout time.Duration, logger *logging.Logger) (*GoogleService, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: init google client: %w", err)
	}
	return &GoogleService{events: svc.Events, timeout: timeout, logger: logger}, nil
}

func (s *GoogleService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}

// CreateEvent inserts a mirrored event and returns its id.
func (s *GoogleService) CreateEvent(ctx context.Context, calendarID, title string, start, end time.Time) (string, error) {
	if calendarID == "" {
		return "", ErrNoCalendar
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	event := &gcal.Event{
		Summary: title,
		Start:   &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	created, err := s.events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", mapGoogleError("create event", err)
	}

	s.logger.Info("calendar event created", "calendar_id", calendarID, "event_id", created.Id, "title", title)
	return created.Id, nil
}

// UpdateEventTitle patches the summary of an existing mirrored event.
func (s *GoogleService) UpdateEventTitle(ctx context.Context, calendarID, eventID, title string) error {
	if calendarID == "" {
		return ErrNoCalendar
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	patch := &gcal.Event{Summary: title}
	if _, err := s.events.Patch(calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return mapGoogleError("update event", err)
	}

	s.logger.Info("calendar event retitled", "calendar_id", calendarID, "event_id", eventID, "title", title)
	return nil
}

func mapGoogleError(verb string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return fmt.Errorf("calendar: %s: %w", verb, ErrPermissionDenied)
		}
	}
	return fmt.Errorf("calendar: %s: %w", verb, err)
}

// Ensure interface compliance
var _ Service = (*GoogleService)(nil)
