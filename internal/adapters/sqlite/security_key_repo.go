package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/vreg/internal/ports/secondary"
)

// SecurityKeyRepository implements secondary.SecurityKeyRepository with SQLite.
type SecurityKeyRepository struct {
	db *sql.DB
}

// NewSecurityKeyRepository creates a new SQLite security-key repository.
func NewSecurityKeyRepository(db *sql.DB) *SecurityKeyRepository {
	return &SecurityKeyRepository{db: db}
}

const securityKeyColumns = "id, serial, kind, status, assigned_to, created_at, updated_at"

// Create persists a new security-key record.
func (r *SecurityKeyRepository) Create(ctx context.Context, key *secondary.SecurityKeyRecord) error {
	status := key.Status
	if status == "" {
		status = "in_stock"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO security_keys (id, serial, kind, status) VALUES (?, ?, ?, ?)",
		key.ID, key.Serial, key.Kind, status,
	)
	if err != nil {
		return fmt.Errorf("failed to create security key: %w", err)
	}
	return nil
}

// GetByID retrieves a security key by its ID.
func (r *SecurityKeyRepository) GetByID(ctx context.Context, id string) (*secondary.SecurityKeyRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+securityKeyColumns+" FROM security_keys WHERE id = ?", id)
	record, err := scanSecurityKey(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("security key %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security key: %w", err)
	}
	return record, nil
}

// List retrieves security keys matching the given filters.
func (r *SecurityKeyRepository) List(ctx context.Context, filters secondary.SecurityKeyFilters) ([]*secondary.SecurityKeyRecord, error) {
	query := "SELECT " + securityKeyColumns + " FROM security_keys WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filters.Kind)
	}
	query += " ORDER BY id ASC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list security keys: %w", err)
	}
	defer rows.Close()

	var records []*secondary.SecurityKeyRecord
	for rows.Next() {
		record, err := scanSecurityKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security key: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Transition applies a status change conditional on the current status
// being one of t.FromStatuses.
func (r *SecurityKeyRepository) Transition(ctx context.Context, t secondary.SecurityKeyTransition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldStatus string
	if err := tx.QueryRowContext(ctx, "SELECT status FROM security_keys WHERE id = ?", t.KeyID).Scan(&oldStatus); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("security key %s: %w", t.KeyID, secondary.ErrNotFound)
		}
		return fmt.Errorf("failed to read security key: %w", err)
	}

	query := fmt.Sprintf("UPDATE security_keys SET status = ?, assigned_to = ?, updated_at = ? WHERE id = ? AND status IN (%s)",
		placeholders(len(t.FromStatuses)))
	args := []any{t.NewStatus, nullable(t.AssignedTo), time.Now().UTC().Format(time.RFC3339), t.KeyID}
	for _, s := range t.FromStatuses {
		args = append(args, s)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to transition security key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transition result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("security key %s is %s, want one of %s: %w",
			t.KeyID, oldStatus, strings.Join(t.FromStatuses, ", "), secondary.ErrInvalidState)
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      t.Actor,
		EntityType: "security_key",
		EntityID:   t.KeyID,
		Action:     "status_changed",
		OldStatus:  oldStatus,
		NewStatus:  t.NewStatus,
		Reason:     t.Reason,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// GetNextID returns the next available security-key ID.
func (r *SecurityKeyRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("KEY-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM security_keys", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next security key ID: %w", err)
	}
	return fmt.Sprintf("KEY-%03d", maxID+1), nil
}

func scanSecurityKey(row rowScanner) (*secondary.SecurityKeyRecord, error) {
	var (
		assignedTo sql.NullString
		updatedAt  sql.NullString
		createdAt  time.Time
	)

	record := &secondary.SecurityKeyRecord{}
	err := row.Scan(&record.ID, &record.Serial, &record.Kind, &record.Status,
		&assignedTo, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.AssignedTo = assignedTo.String
	record.UpdatedAt = updatedAt.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Ensure SecurityKeyRepository implements the interface
var _ secondary.SecurityKeyRepository = (*SecurityKeyRepository)(nil)
