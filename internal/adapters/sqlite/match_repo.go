package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vreg/internal/ports/secondary"
)

// MatchRepository implements secondary.MatchRepository with SQLite.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new SQLite match repository.
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = "id, voter1_id, voter2_id, match_score, fingerprint_score, facial_score, iris_score, match_type, status, priority, reviewed_by, reviewed_at, decision_reason, created_at"

// Create persists a new match record.
func (r *MatchRepository) Create(ctx context.Context, m *secondary.MatchRecord) error {
	status := m.Status
	if status == "" {
		status = "pending_review"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO dedup_matches (id, voter1_id, voter2_id, match_score, fingerprint_score, facial_score, iris_score, match_type, status, priority) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.Voter1ID, m.Voter2ID, m.MatchScore,
		nullFloat(m.FingerprintScore), nullFloat(m.FacialScore), nullFloat(m.IrisScore),
		m.MatchType, status, nullable(m.Priority),
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// GetByID retrieves a match by its ID.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*secondary.MatchRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+matchColumns+" FROM dedup_matches WHERE id = ?", id)
	record, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return record, nil
}

// List retrieves matches matching the given filters, newest first.
func (r *MatchRepository) List(ctx context.Context, filters secondary.MatchFilters) ([]*secondary.MatchRecord, error) {
	query := "SELECT " + matchColumns + " FROM dedup_matches WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.MatchType != "" {
		query += " AND match_type = ?"
		args = append(args, filters.MatchType)
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
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var records []*secondary.MatchRecord
	for rows.Next() {
		record, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Decide applies a review decision. The UPDATE carries the pending_review
// precondition, so a record already decided by a concurrent reviewer is
// left untouched and the caller gets ErrInvalidState.
func (r *MatchRepository) Decide(ctx context.Context, d secondary.MatchDecision) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE dedup_matches SET status = ?, reviewed_by = ?, reviewed_at = ?, decision_reason = ? WHERE id = ? AND status = 'pending_review'",
		d.NewStatus, d.ReviewedBy, time.Now().UTC().Format(time.RFC3339), d.Justification, d.MatchID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply decision: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check decision result: %w", err)
	}
	if affected == 0 {
		// Precondition failed: distinguish a missing record from one
		// that is no longer pending.
		var status string
		err := tx.QueryRowContext(ctx, "SELECT status FROM dedup_matches WHERE id = ?", d.MatchID).Scan(&status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("match %s: %w", d.MatchID, secondary.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to re-read match: %w", err)
		}
		return fmt.Errorf("match %s is %s: %w", d.MatchID, status, secondary.ErrInvalidState)
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      d.ReviewedBy,
		EntityType: "dedup_match",
		EntityID:   d.MatchID,
		Action:     "reviewed",
		OldStatus:  "pending_review",
		NewStatus:  d.NewStatus,
		Reason:     d.Justification,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// FlagException moves a pending match to exception and opens the linked
// exception record in one transaction. If the exception insert fails the
// whole transaction rolls back and the match stays pending.
func (r *MatchRepository) FlagException(ctx context.Context, f secondary.MatchFlag) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE dedup_matches SET status = 'exception', reviewed_by = ?, reviewed_at = ?, decision_reason = ? WHERE id = ? AND status = 'pending_review'",
		f.ReviewedBy, time.Now().UTC().Format(time.RFC3339), f.Justification, f.MatchID,
	)
	if err != nil {
		return fmt.Errorf("failed to flag match: %w", err)
	}
	if err := checkAffected(ctx, tx, res, "dedup_matches", f.MatchID, "pending_review"); err != nil {
		return err
	}

	exc := f.Exception
	status := exc.Status
	if status == "" {
		status = "open"
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO exceptions (id, voter_id, exception_type, reason_code, description, priority, status, created_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		exc.ID, exc.VoterID, exc.ExceptionType, nullable(exc.ReasonCode), nullable(exc.Description),
		nullable(exc.Priority), status, nullable(exc.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to open linked exception: %w", err)
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      f.ReviewedBy,
		EntityType: "dedup_match",
		EntityID:   f.MatchID,
		Action:     "reviewed",
		OldStatus:  "pending_review",
		NewStatus:  "exception",
		Reason:     f.Justification,
	}); err != nil {
		return err
	}
	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      f.ReviewedBy,
		EntityType: "exception",
		EntityID:   exc.ID,
		Action:     "created",
		NewStatus:  status,
		Reason:     fmt.Sprintf("flagged from dedup match %s", f.MatchID),
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// GetNextID returns the next available match ID.
func (r *MatchRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("DM-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM dedup_matches", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next match ID: %w", err)
	}
	return fmt.Sprintf("DM-%03d", maxID+1), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*secondary.MatchRecord, error) {
	var (
		fpScore, faScore, irScore sql.NullFloat64
		priority                  sql.NullString
		reviewedBy                sql.NullString
		reviewedAt                sql.NullString
		decisionReason            sql.NullString
		createdAt                 time.Time
	)

	record := &secondary.MatchRecord{}
	err := row.Scan(&record.ID, &record.Voter1ID, &record.Voter2ID, &record.MatchScore,
		&fpScore, &faScore, &irScore, &record.MatchType, &record.Status,
		&priority, &reviewedBy, &reviewedAt, &decisionReason, &createdAt)
	if err != nil {
		return nil, err
	}

	record.FingerprintScore = fpScore.Float64
	record.FacialScore = faScore.Float64
	record.IrisScore = irScore.Float64
	record.Priority = priority.String
	record.ReviewedBy = reviewedBy.String
	record.ReviewedAt = reviewedAt.String
	record.DecisionReason = decisionReason.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

func nullFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// Ensure MatchRepository implements the interface
var _ secondary.MatchRepository = (*MatchRepository)(nil)
