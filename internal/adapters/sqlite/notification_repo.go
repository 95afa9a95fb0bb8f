package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/vreg/internal/ports/secondary"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists one notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (id, type, recipient_email, recipient_name, payload) VALUES (?, ?, ?, ?, ?)",
		n.ID, n.Type, n.RecipientEmail, nullable(n.RecipientName), nullable(n.Payload),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByRecipient retrieves a recipient's notifications, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, email string, limit int) ([]*secondary.NotificationRecord, error) {
	query := "SELECT id, type, recipient_email, recipient_name, payload, created_at FROM notifications WHERE recipient_email = ? ORDER BY created_at DESC, rowid DESC"
	args := []any{email}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var records []*secondary.NotificationRecord
	for rows.Next() {
		var (
			record        secondary.NotificationRecord
			recipientName sql.NullString
			payload       sql.NullString
			createdAt     time.Time
		)
		err := rows.Scan(&record.ID, &record.Type, &record.RecipientEmail,
			&recipientName, &payload, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		record.RecipientName = recipientName.String
		record.Payload = payload.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, &record)
	}
	return records, rows.Err()
}

// Ensure NotificationRepository implements the interface
var _ secondary.NotificationRepository = (*NotificationRepository)(nil)
