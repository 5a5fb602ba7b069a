// Package inventory decides when usage-threshold notifications should fire.
package inventory

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nailit-studio/nailit-scheduler/internal/settings"
	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

// Treatment families tracked for inventory usage. A "both" treatment counts
// toward both families.
const (
	FamilyManicure = "manicure"
	FamilyPedicure = "pedicure"
)

// NotificationTitle is the title of every inventory reminder.
const NotificationTitle = "Inventory reminder"

// Counter reports how many appointments of a family have been completed.
type Counter interface {
	CountCompleted(ctx context.Context, family string) (int, error)
}

// CounterFunc adapts a function to the Counter interface.
type CounterFunc func(ctx context.Context, family string) (int, error)

// CountCompleted calls f.
func (f CounterFunc) CountCompleted(ctx context.Context, family string) (int, error) {
	return f(ctx, family)
}

// Sender delivers an immediate notification.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// Metrics records fired notifications.
type Metrics interface {
	ObserveNotification(family string)
}

// Notifier evaluates usage thresholds after appointment completions.
type Notifier struct {
	counter  Counter
	settings settings.Store
	sender   Sender
	metrics  Metrics
	logger   *logging.Logger
}

// NewNotifier constructs a threshold notifier.
func NewNotifier(counter Counter, store settings.Store, sender Sender, metrics Metrics, logger *logging.Logger) *Notifier {
	if counter == nil {
		panic("inventory: counter required")
	}
	if store == nil {
		panic("inventory: settings store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{
		counter:  counter,
		settings: store,
		sender:   sender,
		metrics:  metrics,
		logger:   logger,
	}
}

// EvaluateAndNotify runs the threshold check for every family the completed
// treatment affects. At most one notification fires per family per call: when
// the completed count jumps past several threshold multiples at once, the
// watermark moves straight to the current count and the skipped crossings are
// suppressed.
func (n *Notifier) EvaluateAndNotify(ctx context.Context, treatment string) error {
	var errs []error
	for _, family := range familiesFor(treatment) {
		if err := n.evaluateFamily(ctx, family); err != nil {
			n.logger.Error("inventory: threshold evaluation failed", "error", err, "family", family)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d notification(s) failed: %w", len(errs), errs[0])
	}
	return nil
}

func (n *Notifier) evaluateFamily(ctx context.Context, family string) error {
	current, err := n.counter.CountCompleted(ctx, family)
	if err != nil {
		return fmt.Errorf("inventory: count %s: %w", family, err)
	}

	threshold, ok := n.readNumber(ctx, "threshold_"+family)
	if !ok || threshold <= 0 {
		// Zero, negative or non-numeric threshold disables the family.
		return nil
	}
	lastNotified, ok := n.readNumber(ctx, "last_notified_"+family)
	if !ok {
		return nil
	}

	if float64(current) < lastNotified+threshold {
		return nil
	}

	if n.sender != nil {
		if err := n.sender.Send(ctx, NotificationTitle, message(family, threshold)); err != nil {
			return fmt.Errorf("inventory: notify %s: %w", family, err)
		}
	}
	if err := n.settings.Set(ctx, "last_notified_"+family, strconv.Itoa(current)); err != nil {
		return fmt.Errorf("inventory: advance watermark %s: %w", family, err)
	}
	if n.metrics != nil {
		n.metrics.ObserveNotification(family)
	}
	n.logger.Info("inventory notification sent", "family", family, "threshold", threshold, "completed", current)
	return nil
}

// readNumber accepts any finite decimal, so fractional thresholds such as
// "20.5" stay in effect rather than silently disabling a family.
func (n *Notifier) readNumber(ctx context.Context, key string) (float64, bool) {
	raw, err := n.settings.Get(ctx, key)
	if err != nil {
		n.logger.Error("inventory: read setting failed", "error", err, "key", key)
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func familiesFor(treatment string) []string {
	switch treatment {
	case FamilyManicure:
		return []string{FamilyManicure}
	case FamilyPedicure:
		return []string{FamilyPedicure}
	case "both":
		return []string{FamilyManicure, FamilyPedicure}
	}
	return nil
}

func message(family string, threshold float64) string {
	limit := strconv.FormatFloat(threshold, 'f', -1, 64)
	if family == FamilyManicure {
		return fmt.Sprintf("You've reached %s manicure treatments. Check base coats, top coats and alcohol!", limit)
	}
	return fmt.Sprintf("You've reached %s pedicure treatments. Check supplies and stock!", limit)
}
