package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

const (
	defaultPushBaseURL = "https://ntfy.sh"
	pushUserAgent      = "nailit-scheduler/0.1"
)

// PushConfig controls how the push client behaves.
type PushConfig struct {
	BaseURL    string
	Topic      string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// PushSender publishes notifications to an ntfy-compatible topic endpoint.
type PushSender struct {
	baseURL    string
	topic      string
	token      string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewPushSender creates a configured PushSender with sane defaults.
func NewPushSender(cfg PushConfig, logger *logging.Logger) (*PushSender, error) {
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return nil, fmt.Errorf("notify: push topic is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultPushBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PushSender{
		baseURL:    baseURL,
		topic:      topic,
		token:      cfg.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Send publishes the notification to the configured topic.
func (s *PushSender) Send(ctx context.Context, title, body string) error {
	url := s.baseURL + "/" + s.topic
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build push request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("User-Agent", pushUserAgent)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: push send failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("notify: push send: %w", ErrPermissionDenied)
	case resp.StatusCode >= 400:
		return fmt.Errorf("notify: push gateway returned status %d", resp.StatusCode)
	}

	s.logger.Info("push notification sent", "topic", s.topic, "title", title)
	return nil
}

// Ensure interface compliance
var _ Sender = (*PushSender)(nil)
