// Package notify delivers immediate notifications to the studio operator.
package notify

import (
	"context"
	"errors"

	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

// ErrPermissionDenied is returned when the notification backend refuses the
// send. It is surfaced as a warning, never retried automatically.
var ErrPermissionDenied = errors.New("notification access denied")

// Sender delivers an immediate notification.
// Implementations can be swapped (push gateway, SES email, stub) without
// changing callers.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// StubSender is a no-op sender for testing or when notifications are disabled.
type StubSender struct {
	logger *logging.Logger
}

// NewStubSender creates a stub sender that logs but doesn't send.
func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

// Send logs the notification but doesn't actually send it.
func (s *StubSender) Send(ctx context.Context, title, body string) error {
	s.logger.Info("stub sender: would send notification", "title", title, "body", body)
	return nil
}

// Ensure interface compliance
var _ Sender = (*StubSender)(nil)
