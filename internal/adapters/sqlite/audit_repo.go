package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/vreg/internal/ports/secondary"
)

// AuditLogRepository implements secondary.AuditLogRepository with SQLite.
// The table is append-only; there is no update or delete path.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new SQLite audit-log repository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

const auditColumns = "id, actor, entity_type, entity_id, action, old_status, new_status, reason, created_at"

// Append writes one audit entry.
func (r *AuditLogRepository) Append(ctx context.Context, entry *secondary.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return appendAudit(ctx, r.db, *entry)
}

// List retrieves audit entries matching the filters, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filters secondary.AuditFilters) ([]*secondary.AuditEntry, error) {
	query := "SELECT " + auditColumns + " FROM audit_logs WHERE 1=1"
	args := []any{}

	if filters.Actor != "" {
		query += " AND actor = ?"
		args = append(args, filters.Actor)
	}
	if filters.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, filters.EntityType)
	}
	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}
	if filters.Since != "" {
		query += " AND created_at >= ?"
		args = append(args, filters.Since)
	}
	if filters.Until != "" {
		query += " AND created_at <= ?"
		args = append(args, filters.Until)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

// ListByEntity retrieves all entries for one entity in append order.
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*secondary.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+auditColumns+" FROM audit_logs WHERE entity_type = ? AND entity_id = ? ORDER BY created_at ASC, rowid ASC",
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entity history: %w", err)
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

func collectAuditEntries(rows *sql.Rows) ([]*secondary.AuditEntry, error) {
	var entries []*secondary.AuditEntry
	for rows.Next() {
		var (
			entry     secondary.AuditEntry
			oldStatus sql.NullString
			newStatus sql.NullString
			reason    sql.NullString
			createdAt time.Time
		)
		err := rows.Scan(&entry.ID, &entry.Actor, &entry.EntityType, &entry.EntityID,
			&entry.Action, &oldStatus, &newStatus, &reason, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.OldStatus = oldStatus.String
		entry.NewStatus = newStatus.String
		entry.Reason = reason.String
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Ensure AuditLogRepository implements the interface
var _ secondary.AuditLogRepository = (*AuditLogRepository)(nil)
