package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vreg/internal/ports/secondary"
)

// ExceptionRepository implements secondary.ExceptionRepository with SQLite.
type ExceptionRepository struct {
	db *sql.DB
}

// NewExceptionRepository creates a new SQLite exception repository.
func NewExceptionRepository(db *sql.DB) *ExceptionRepository {
	return &ExceptionRepository{db: db}
}

const exceptionColumns = "id, voter_id, exception_type, reason_code, description, priority, status, created_by, reviewed_by, reviewed_at, override_justification, escalated_to, created_at"

// Create persists a new exception record.
func (r *ExceptionRepository) Create(ctx context.Context, e *secondary.ExceptionRecord) error {
	status := e.Status
	if status == "" {
		status = "open"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO exceptions (id, voter_id, exception_type, reason_code, description, priority, status, created_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.VoterID, e.ExceptionType, nullable(e.ReasonCode), nullable(e.Description),
		nullable(e.Priority), status, nullable(e.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to create exception: %w", err)
	}
	return nil
}

// GetByID retrieves an exception by its ID.
func (r *ExceptionRepository) GetByID(ctx context.Context, id string) (*secondary.ExceptionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+exceptionColumns+" FROM exceptions WHERE id = ?", id)
	record, err := scanException(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("exception %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exception: %w", err)
	}
	return record, nil
}

// List retrieves exceptions matching the given filters, newest first.
func (r *ExceptionRepository) List(ctx context.Context, filters secondary.ExceptionFilters) ([]*secondary.ExceptionRecord, error) {
	query := "SELECT " + exceptionColumns + " FROM exceptions WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.ExceptionType != "" {
		query += " AND exception_type = ?"
		args = append(args, filters.ExceptionType)
	}
	if filters.Priority != "" {
		query += " AND priority = ?"
		args = append(args, filters.Priority)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exceptions: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ExceptionRecord
	for rows.Next() {
		record, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exception: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Claim moves an open exception to under_review, conditional on it still
// being open.
func (r *ExceptionRepository) Claim(ctx context.Context, id, actor string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE exceptions SET status = 'under_review', reviewed_by = ? WHERE id = ? AND status = 'open'",
		actor, id,
	)
	if err != nil {
		return fmt.Errorf("failed to claim exception: %w", err)
	}
	if err := checkAffected(ctx, tx, res, "exceptions", id, "open"); err != nil {
		return err
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      actor,
		EntityType: "exception",
		EntityID:   id,
		Action:     "claimed",
		OldStatus:  "open",
		NewStatus:  "under_review",
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// Decide applies an approve/reject ruling, conditional on the exception
// still being actionable.
func (r *ExceptionRepository) Decide(ctx context.Context, d secondary.ExceptionDecision) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldStatus string
	if err := tx.QueryRowContext(ctx, "SELECT status FROM exceptions WHERE id = ?", d.ExceptionID).Scan(&oldStatus); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("exception %s: %w", d.ExceptionID, secondary.ErrNotFound)
		}
		return fmt.Errorf("failed to read exception: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE exceptions SET status = ?, reviewed_by = ?, reviewed_at = ?, override_justification = ? WHERE id = ? AND status IN ('open', 'under_review')",
		d.NewStatus, d.ReviewedBy, time.Now().UTC().Format(time.RFC3339), d.Justification, d.ExceptionID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply ruling: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check ruling result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("exception %s is %s: %w", d.ExceptionID, oldStatus, secondary.ErrInvalidState)
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      d.ReviewedBy,
		EntityType: "exception",
		EntityID:   d.ExceptionID,
		Action:     "reviewed",
		OldStatus:  oldStatus,
		NewStatus:  d.NewStatus,
		Reason:     d.Justification,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// Escalate hands the exception to a higher authority, conditional on it
// still being actionable.
func (r *ExceptionRepository) Escalate(ctx context.Context, id, targetRole, actor, justification string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldStatus string
	if err := tx.QueryRowContext(ctx, "SELECT status FROM exceptions WHERE id = ?", id).Scan(&oldStatus); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("exception %s: %w", id, secondary.ErrNotFound)
		}
		return fmt.Errorf("failed to read exception: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE exceptions SET status = 'escalated', escalated_to = ?, override_justification = ? WHERE id = ? AND status IN ('open', 'under_review')",
		targetRole, justification, id,
	)
	if err != nil {
		return fmt.Errorf("failed to escalate exception: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check escalation result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("exception %s is %s: %w", id, oldStatus, secondary.ErrInvalidState)
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      actor,
		EntityType: "exception",
		EntityID:   id,
		Action:     "escalated",
		OldStatus:  oldStatus,
		NewStatus:  "escalated",
		Reason:     fmt.Sprintf("to %s: %s", targetRole, justification),
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// GetNextID returns the next available exception ID.
func (r *ExceptionRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("EXC-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM exceptions", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next exception ID: %w", err)
	}
	return fmt.Sprintf("EXC-%03d", maxID+1), nil
}

func scanException(row rowScanner) (*secondary.ExceptionRecord, error) {
	var (
		reasonCode    sql.NullString
		description   sql.NullString
		priority      sql.NullString
		createdBy     sql.NullString
		reviewedBy    sql.NullString
		reviewedAt    sql.NullString
		justification sql.NullString
		escalatedTo   sql.NullString
		createdAt     time.Time
	)

	record := &secondary.ExceptionRecord{}
	err := row.Scan(&record.ID, &record.VoterID, &record.ExceptionType, &reasonCode,
		&description, &priority, &record.Status, &createdBy, &reviewedBy,
		&reviewedAt, &justification, &escalatedTo, &createdAt)
	if err != nil {
		return nil, err
	}

	record.ReasonCode = reasonCode.String
	record.Description = description.String
	record.Priority = priority.String
	record.CreatedBy = createdBy.String
	record.ReviewedBy = reviewedBy.String
	record.ReviewedAt = reviewedAt.String
	record.OverrideJustification = justification.String
	record.EscalatedTo = escalatedTo.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Ensure ExceptionRepository implements the interface
var _ secondary.ExceptionRepository = (*ExceptionRepository)(nil)
