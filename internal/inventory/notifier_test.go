package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nailit-studio/nailit-scheduler/internal/settings"
	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

type recordingSender struct {
	sent []string
	err  error
}

func (s *recordingSender) Send(ctx context.Context, title, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, body)
	return nil
}

type fixedCounter map[string]int

func (c fixedCounter) CountCompleted(ctx context.Context, family string) (int, error) {
	return c[family], nil
}

func newStore(t *testing.T, values map[string]string) settings.Store {
	t.Helper()
	store := settings.NewInMemoryStore()
	for k, v := range values {
		if err := store.Set(context.Background(), k, v); err != nil {
			t.Fatalf("seed setting %s: %v", k, err)
		}
	}
	return store
}

func getSetting(t *testing.T, store settings.Store, key string) string {
	t.Helper()
	v, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get setting %s: %v", key, err)
	}
	return v
}

func TestThresholdCrossingFiresOnce(t *testing.T) {
	store := newStore(t, map[string]string{
		"threshold_manicure":     "20",
		"last_notified_manicure": "0",
	})
	sender := &recordingSender{}
	n := NewNotifier(fixedCounter{FamilyManicure: 20}, store, sender, nil, logging.Default())

	if err := n.EvaluateAndNotify(context.Background(), "manicure"); err != nil {
		t.Fatalf("EvaluateAndNotify: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0], "20") {
		t.Fatalf("expected message to reference the threshold, got %q", sender.sent[0])
	}
	if got := getSetting(t, store, "last_notified_manicure"); got != "20" {
		t.Fatalf("expected watermark 20, got %q", got)
	}
}

func TestFractionalThresholdStaysInEffect(t *testing.T) {
	store := newStore(t, map[string]string{
		"threshold_manicure":     "20.5",
		"last_notified_manicure": "0",
	})
	sender := &recordingSender{}
	n := NewNotifier(fixedCounter{FamilyManicure: 21}, store, sender, nil, logging.Default())

	if err := n.EvaluateAndNotify(context.Background(), "manicure"); err != nil {
		t.Fatalf("EvaluateAndNotify: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one notification at 21 with threshold 20.5, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0], "20.5") {
		t.Fatalf("expected message to reference the threshold, got %q", sender.sent[0])
	}
	// The watermark stays an integer completion count.
	if got := getSetting(t, store, "last_notified_manicure"); got != "21" {
		t.Fatalf("expected watermark 21, got %q", got)
	}
}

func TestBelowNextCrossingStaysQuiet(t *testing.T) {
	store := newStore(t, map[string]string{
		"threshold_manicure":     "20",
		"last_notified_manicure": "20",
	})
	sender := &recordingSender{}
	n := NewNotifier(fixedCounter{FamilyManicure: 21}, store, sender, nil, logging.Default())

	if err := n.EvaluateAndNotify(context.Background(), "manicure"); err != nil {
		t.Fatalf("EvaluateAndNotify: %v", err)
	}

	if len(sender.sent) != 0 {
		t.Fatalf("expected no notification at 21, got %d", len(sender.sent))
	}
	if got := getSetting(t, store, "last_notified_manicure"); got != "20" {
		t.Fatalf("watermark must stay at 20, got %q", got)
	}
}

func TestWatermarkJumpSuppressesSkippedCrossings(t *testing.T) {
	store := newStore(t, map[string]string{
		"threshold_manicure":     "20",
		"last_notified_manicure": "0",
	})
	sender := &recordingSender{}
	n := NewNotifier(fixedCounter{FamilyManicure: 45}, store, sender, nil, logging.Default())

	if err := n.EvaluateAndNotify(context.Background(), "manicure"); err != nil {
		t.Fatalf("EvaluateAndNotify: %v", err)
	}

	// Jumping from 0 to 45 crosses 20 and 40, but only one notification
	// fires and the watermark lands on 45, not 40.
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(sender.sent))
	}
	if got := getSetting(t, store, "last_notified_manicure"); got != "45" {
		t.Fatalf("expected watermark 45, got %q", got)
	}
}

func TestZeroThresholdDisablesFamily(t *testing.T) {
	store := newStore(t, map[string]string{
		"threshold_manicure":     "0",
		"last_notified_manicure": "0",
	})
	sender := &recordingSender{}
	n := NewNotifier(fixedCounter{FamilyManicure: 100}, store, sender, nil, logging.Default())

	for i := 0; i < 3; i++ {
		if err := n.EvaluateAndNotify(context.Background(), "manicure"); err != nil {
			t.Fatalf("EvaluateAndNotify: %v", err)
		}
	}

	if len(sender.sent) != 0 {
		t.Fatalf("disabled family must never notify, got %d", len(sender.sent))
	}
	if got := getSetting(t, store, "last_notified_manicure"); got != "0" {
		t.Fatalf("disabled family must not move the watermark, got %q", got)
	}
}

func TestNonNumericThresholdDisablesFamily(t *testing.T) {
	store := newStore(t, map[string]string{
		"threshold_pedicure":     "lots",
		"last_notified_pedicure": "0",
	})
	sender := &recordingSender{}
	n := NewNotifier(fixedCounter{FamilyPedicure: 50}, store, sender, nil, logging.Default())

	if err := n.EvaluateAndNotify(context.Background(), "pedicure"); err != nil {
		t.Fatalf("EvaluateAndNotify: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("non-numeric threshold must disable notifications")
	}
}

func TestBothTreatmentEvaluatesBothFamilies(t *testing.T) {
	store := newStore(t, map[string]string{
		"threshold_manicure":     "10",
		"last_notified_manicure": "0",
		"threshold_pedicure":     "10",
		"last_notified_pedicure": "0",
	})
	sender := &recordingSender{}
	counter := fixedCounter{FamilyManicure: 10, FamilyPedicure: 4}
	n := NewNotifier(counter, store, sender, nil, logging.Default())

	if err := n.EvaluateAndNotify(context.Background(), "both"); err != nil {
		t.Fatalf("EvaluateAndNotify: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected only the manicure family to fire, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0], "manicure") {
		t.Fatalf("expected manicure message, got %q", sender.sent[0])
	}
	if got := getSetting(t, store, "last_notified_pedicure"); got != "0" {
		t.Fatalf("pedicure watermark must not move, got %q", got)
	}
}

func TestSendFailureKeepsWatermark(t *testing.T) {
	store := newStore(t, map[string]string{
		"threshold_manicure":     "20",
		"last_notified_manicure": "0",
	})
	sender := &recordingSender{err: errors.New("gateway down")}
	n := NewNotifier(fixedCounter{FamilyManicure: 25}, store, sender, nil, logging.Default())

	err := n.EvaluateAndNotify(context.Background(), "manicure")
	if err == nil {
		t.Fatal("expected error when the sender fails")
	}
	if strings.Count(err.Error(), "inventory:") != 1 {
		t.Fatalf("expected a single package prefix, got %q", err.Error())
	}
	if got := getSetting(t, store, "last_notified_manicure"); got != "0" {
		t.Fatalf("failed send must not advance the watermark, got %q", got)
	}
}

func TestUnknownTreatmentIsIgnored(t *testing.T) {
	store := newStore(t, nil)
	sender := &recordingSender{}
	n := NewNotifier(fixedCounter{}, store, sender, nil, logging.Default())

	if err := n.EvaluateAndNotify(context.Background(), "massage"); err != nil {
		t.Fatalf("EvaluateAndNotify: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("unknown treatment must not notify")
	}
}
