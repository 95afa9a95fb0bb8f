// Package sqlite contains SQLite implementations of the repository
// interfaces. Every status-changing write is a single conditional UPDATE
// guarded by the expected source status, executed in a transaction that
// also appends the audit row, so two concurrent reviewers can never both
// decide the same record.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/vreg/internal/ports/secondary"
)

// execer lets the audit append run inside or outside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// checkAffected resolves a conditional update that matched no rows into
// ErrNotFound or ErrInvalidState by re-reading the row's status.
func checkAffected(ctx context.Context, q querier, res sql.Result, table, id, want string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected > 0 {
		return nil
	}
	var status string
	err = q.QueryRowContext(ctx, "SELECT status FROM "+table+" WHERE id = ?", id).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to re-read %s: %w", id, err)
	}
	return fmt.Errorf("%s is %s, want %s: %w", id, status, want, secondary.ErrInvalidState)
}

// appendAudit writes one audit_logs row. Called with the mutation's own
// transaction so the trail commits or rolls back with the status write.
func appendAudit(ctx context.Context, e execer, entry secondary.AuditEntry) error {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := e.ExecContext(ctx,
		"INSERT INTO audit_logs (id, actor, entity_type, entity_id, action, old_status, new_status, reason) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, entry.Actor, entry.EntityType, entry.EntityID, entry.Action,
		nullable(entry.OldStatus), nullable(entry.NewStatus), nullable(entry.Reason),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// placeholders returns "?, ?, ..." for n values.
func placeholders(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ", "
		}
		out += "?"
	}
	return out
}
