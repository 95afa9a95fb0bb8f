// Package notify turns domain events into notification records and
// delivers them through a pluggable sender. Dispatch failures are the
// caller's to log, never to fail a review on.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/example/vreg/internal/ports/secondary"
)

// Sender delivers a notification out of process. The default sender just
// logs; a mail or SMS gateway slots in behind the same interface.
type Sender interface {
	Send(ctx context.Context, n secondary.Notification) error
}

// MetricsRecorder counts dispatch outcomes.
type MetricsRecorder interface {
	RecordNotification(failed bool)
}

// Dispatcher persists every notification as an in-app row and hands it to
// the sender. It implements secondary.Notifier.
type Dispatcher struct {
	repo    secondary.NotificationRepository
	audit   secondary.AuditLogRepository
	sender  Sender
	logger  *slog.Logger
	metrics MetricsRecorder
}

// NewDispatcher creates a dispatcher. sender may be nil, in which case
// notifications are stored and logged only.
func NewDispatcher(repo secondary.NotificationRepository, audit secondary.AuditLogRepository, sender Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{repo: repo, audit: audit, sender: sender, logger: logger}
}

// WithMetrics attaches a recorder for dispatch counts and returns the
// dispatcher for chaining.
func (d *Dispatcher) WithMetrics(m MetricsRecorder) *Dispatcher {
	d.metrics = m
	return d
}

// Dispatch stores the notification, appends the audit row, and forwards it
// to the sender. The stored row is the source of truth; a sender failure
// is returned but the row stays.
func (d *Dispatcher) Dispatch(ctx context.Context, n secondary.Notification) error {
	if n.RecipientEmail == "" {
		return fmt.Errorf("notification has no recipient: %w", secondary.ErrValidation)
	}

	payload := ""
	if len(n.Data) > 0 {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to encode notification payload: %w", err)
		}
		payload = string(raw)
	}

	record := &secondary.NotificationRecord{
		Type:           n.Type,
		RecipientEmail: n.RecipientEmail,
		RecipientName:  n.RecipientName,
		Payload:        payload,
	}
	if err := d.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if d.audit != nil {
		entry := &secondary.AuditEntry{
			Actor:      "system",
			EntityType: "notification",
			EntityID:   record.ID,
			Action:     "dispatched",
			Reason:     n.Type,
		}
		if err := d.audit.Append(ctx, entry); err != nil {
			d.logger.Warn("failed to audit notification", "id", record.ID, "error", err)
		}
	}

	if d.sender == nil {
		d.logger.Info("notification stored",
			"type", n.Type, "recipient", n.RecipientEmail)
		d.record(false)
		return nil
	}
	if err := d.sender.Send(ctx, n); err != nil {
		d.record(true)
		return fmt.Errorf("failed to send notification: %w", err)
	}
	d.record(false)
	return nil
}

func (d *Dispatcher) record(failed bool) {
	if d.metrics != nil {
		d.metrics.RecordNotification(failed)
	}
}

// LogSender is the default Sender. It writes the notification to the
// structured log and nothing else.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the notification.
func (s LogSender) Send(_ context.Context, n secondary.Notification) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification sent",
		"type", n.Type, "recipient", n.RecipientEmail, "name", n.RecipientName)
	return nil
}

// Ensure Dispatcher implements the interface
var _ secondary.Notifier = (*Dispatcher)(nil)
