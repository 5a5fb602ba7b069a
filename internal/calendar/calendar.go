// Package calendar mirrors appointments into an external calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

var (
	// ErrPermissionDenied is returned when the calendar backend refuses access.
	// It is surfaced as a warning, never retried automatically.
	ErrPermissionDenied = errors.New("calendar access denied")

	// ErrNoCalendar is returned when no target calendar is configured.
	ErrNoCalendar = errors.New("no calendar configured")
)

// Service creates and retitles mirrored events.
// Implementations can be swapped (Google Calendar, stub) without changing callers.
type Service interface {
	CreateEvent(ctx context.Context, calendarID, title string, start, end time.Time) (string, error)
	UpdateEventTitle(ctx context.Context, calendarID, eventID, title string) error
}

// EventTitle builds the mirrored event title for a treatment and client.
func EventTitle(treatment, clientName string) string {
	switch treatment {
	case "manicure":
		return fmt.Sprintf("Manicure – %s", clientName)
	case "pedicure":
		return fmt.Sprintf("Pedicure – %s", clientName)
	default:
		return fmt.Sprintf("Manicure+Pedicure – %s", clientName)
	}
}

// CanceledTitle prefixes a mirrored event title on cancellation.
func CanceledTitle(title string) string {
	return "Canceled: " + title
}

// StubService logs mirror calls without talking to any backend.
type StubService struct {
	logger *logging.Logger
}

// NewStubService creates a stub calendar service.
func NewStubService(logger *logging.Logger) *StubService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubService{logger: logger}
}

// CreateEvent logs but does not create anything.
func (s *StubService) CreateEvent(ctx context.Context, calendarID, title string, start, end time.Time) (string, error) {
	s.logger.Info("stub calendar: would create event", "calendar_id", calendarID, "title", title, "start", start)
	return "", nil
}

// UpdateEventTitle logs but does not update anything.
func (s *StubService) UpdateEventTitle(ctx context.Context, calendarID, eventID, title string) error {
	s.logger.Info("stub calendar: would retitle event", "calendar_id", calendarID, "event_id", eventID, "title", title)
	return nil
}

// Ensure interface compliance
var _ Service = (*StubService)(nil)
