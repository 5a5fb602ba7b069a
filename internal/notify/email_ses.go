package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"

	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

// SESSender delivers notifications as email via AWS SES.
type SESSender struct {
	client   *sesv2.Client
	from     string
	fromName string
	to       string
	logger   *logging.Logger
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	FromEmail string
	FromName  string
	ToEmail   string
}

// NewSESSender creates a new AWS SES notification sender.
func NewSESSender(client *sesv2.Client, cfg SESConfig, logger *logging.Logger) *SESSender {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "NailIt Scheduler"
	}
	return &SESSender{
		client:   client,
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
		to:       cfg.ToEmail,
		logger:   logger,
	}
}

// Send delivers the notification as a plain-text email.
func (s *SESSender) Send(ctx context.Context, title, body string) error {
	if s.client == nil {
		return fmt.Errorf("notify: SES client not configured")
	}

	fromAddress := fmt.Sprintf("%s <%s>", s.fromName, s.from)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{s.to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(title),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDeniedException" {
			return fmt.Errorf("notify: SES send: %w", ErrPermissionDenied)
		}
		s.logger.Error("SES send failed", "error", err, "to", s.to)
		return fmt.Errorf("notify: SES send failed: %w", err)
	}

	s.logger.Info("notification emailed via SES", "to", s.to, "subject", title, "message_id", aws.ToString(output.MessageId))
	return nil
}

// Ensure interface compliance
var _ Sender = (*SESSender)(nil)
