package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/vreg/internal/ports/secondary"
)

type memNotificationRepo struct {
	rows []*secondary.NotificationRecord
}

func (m *memNotificationRepo) Create(_ context.Context, n *secondary.NotificationRecord) error {
	if n.ID == "" {
		n.ID = "note-1"
	}
	m.rows = append(m.rows, n)
	return nil
}

func (m *memNotificationRepo) ListByRecipient(_ context.Context, email string, _ int) ([]*secondary.NotificationRecord, error) {
	var out []*secondary.NotificationRecord
	for _, r := range m.rows {
		if r.RecipientEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

type memAuditRepo struct {
	entries []*secondary.AuditEntry
}

func (m *memAuditRepo) Append(_ context.Context, e *secondary.AuditEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memAuditRepo) List(_ context.Context, _ secondary.AuditFilters) ([]*secondary.AuditEntry, error) {
	return m.entries, nil
}

func (m *memAuditRepo) ListByEntity(_ context.Context, _, _ string) ([]*secondary.AuditEntry, error) {
	return m.entries, nil
}

type failingSender struct{}

func (failingSender) Send(_ context.Context, _ secondary.Notification) error {
	return errors.New("smtp unreachable")
}

type countingRecorder struct {
	ok     int
	failed int
}

func (c *countingRecorder) RecordNotification(failed bool) {
	if failed {
		c.failed++
	} else {
		c.ok++
	}
}

func TestDispatchStoresRowAndAudits(t *testing.T) {
	repo := &memNotificationRepo{}
	audit := &memAuditRepo{}
	d := NewDispatcher(repo, audit, nil, nil)

	err := d.Dispatch(context.Background(), secondary.Notification{
		Type:           secondary.NotificationUserApproved,
		RecipientEmail: "clerk@ec.gov",
		RecipientName:  "County Clerk",
		Data:           map[string]string{"exception_id": "EXC-001"},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(repo.rows))
	}
	if !strings.Contains(repo.rows[0].Payload, "EXC-001") {
		t.Errorf("expected payload to carry the exception id, got %q", repo.rows[0].Payload)
	}

	if len(audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audit.entries))
	}
	if audit.entries[0].Action != "dispatched" {
		t.Errorf("expected dispatched action, got %s", audit.entries[0].Action)
	}
}

func TestDispatchNoRecipient(t *testing.T) {
	d := NewDispatcher(&memNotificationRepo{}, nil, nil, nil)

	err := d.Dispatch(context.Background(), secondary.Notification{
		Type: secondary.NotificationUserApproved,
	})
	if !errors.Is(err, secondary.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestDispatchSenderFailureKeepsRow(t *testing.T) {
	repo := &memNotificationRepo{}
	rec := &countingRecorder{}
	d := NewDispatcher(repo, nil, failingSender{}, nil).WithMetrics(rec)

	err := d.Dispatch(context.Background(), secondary.Notification{
		Type:           secondary.NotificationUserRejected,
		RecipientEmail: "clerk@ec.gov",
	})
	if err == nil {
		t.Fatal("expected sender error")
	}
	if len(repo.rows) != 1 {
		t.Errorf("expected stored row to survive sender failure, got %d rows", len(repo.rows))
	}
	if rec.failed != 1 || rec.ok != 0 {
		t.Errorf("expected one failed dispatch recorded, got ok=%d failed=%d", rec.ok, rec.failed)
	}
}
