package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/vreg/internal/ports/secondary"
)

// WorkOrderRepository implements secondary.WorkOrderRepository with SQLite.
type WorkOrderRepository struct {
	db *sql.DB
}

// NewWorkOrderRepository creates a new SQLite work-order repository.
func NewWorkOrderRepository(db *sql.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

const workOrderColumns = "id, device_id, type, priority, status, description, created_at, started_at, completed_at"

// Create persists a new work-order record.
func (r *WorkOrderRepository) Create(ctx context.Context, wo *secondary.WorkOrderRecord) error {
	status := wo.Status
	if status == "" {
		status = "open"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO work_orders (id, device_id, type, priority, status, description) VALUES (?, ?, ?, ?, ?, ?)",
		wo.ID, wo.DeviceID, wo.Type, nullable(wo.Priority), status, nullable(wo.Description),
	)
	if err != nil {
		return fmt.Errorf("failed to create work order: %w", err)
	}
	return nil
}

// GetByID retrieves a work order by its ID.
func (r *WorkOrderRepository) GetByID(ctx context.Context, id string) (*secondary.WorkOrderRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+workOrderColumns+" FROM work_orders WHERE id = ?", id)
	record, err := scanWorkOrder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("work order %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	return record, nil
}

// List retrieves work orders matching the given filters, newest first.
func (r *WorkOrderRepository) List(ctx context.Context, filters secondary.WorkOrderFilters) ([]*secondary.WorkOrderRecord, error) {
	query := "SELECT " + workOrderColumns + " FROM work_orders WHERE 1=1"
	args := []any{}

	if filters.DeviceID != "" {
		query += " AND device_id = ?"
		args = append(args, filters.DeviceID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Type != "" {
		query += " AND type = ?"
		args = append(args, filters.Type)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	var records []*secondary.WorkOrderRecord
	for rows.Next() {
		record, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Transition applies a status change conditional on the current status
// being one of t.FromStatuses.
func (r *WorkOrderRepository) Transition(ctx context.Context, t secondary.WorkOrderTransition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldStatus string
	if err := tx.QueryRowContext(ctx, "SELECT status FROM work_orders WHERE id = ?", t.WorkOrderID).Scan(&oldStatus); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("work order %s: %w", t.WorkOrderID, secondary.ErrNotFound)
		}
		return fmt.Errorf("failed to read work order: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	set := "status = ?"
	args := []any{t.NewStatus}
	if t.StampStartedAt {
		// preserved across awaiting_parts round trips
		set += ", started_at = COALESCE(started_at, ?)"
		args = append(args, now)
	}
	if t.StampCompleted {
		set += ", completed_at = ?"
		args = append(args, now)
	}

	query := fmt.Sprintf("UPDATE work_orders SET %s WHERE id = ? AND status IN (%s)",
		set, placeholders(len(t.FromStatuses)))
	args = append(args, t.WorkOrderID)
	for _, s := range t.FromStatuses {
		args = append(args, s)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to transition work order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transition result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("work order %s is %s, want one of %s: %w",
			t.WorkOrderID, oldStatus, strings.Join(t.FromStatuses, ", "), secondary.ErrInvalidState)
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      t.Actor,
		EntityType: "work_order",
		EntityID:   t.WorkOrderID,
		Action:     "status_changed",
		OldStatus:  oldStatus,
		NewStatus:  t.NewStatus,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// AddNote appends a note with the next sequence number. The UNIQUE
// constraint on (work_order_id, seq) rejects a concurrent writer that
// computed the same seq.
func (r *WorkOrderRepository) AddNote(ctx context.Context, workOrderID string, note *secondary.WorkOrderNote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM work_orders WHERE id = ?", workOrderID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check work order: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("work order %s: %w", workOrderID, secondary.ErrNotFound)
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM work_order_notes WHERE work_order_id = ?",
		workOrderID,
	).Scan(&seq); err != nil {
		return fmt.Errorf("failed to compute note sequence: %w", err)
	}

	note.ID = uuid.NewString()
	note.Seq = seq
	note.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		"INSERT INTO work_order_notes (id, work_order_id, seq, author, text, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		note.ID, workOrderID, note.Seq, note.Author, note.Text, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      note.Author,
		EntityType: "work_order",
		EntityID:   workOrderID,
		Action:     "note_added",
		Reason:     note.Text,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// ListNotes returns the notes for a work order in append order.
func (r *WorkOrderRepository) ListNotes(ctx context.Context, workOrderID string) ([]*secondary.WorkOrderNote, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, seq, author, text, created_at FROM work_order_notes WHERE work_order_id = ? ORDER BY seq ASC",
		workOrderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*secondary.WorkOrderNote
	for rows.Next() {
		var (
			note      secondary.WorkOrderNote
			createdAt time.Time
		)
		if err := rows.Scan(&note.ID, &note.Seq, &note.Author, &note.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		note.CreatedAt = createdAt.Format(time.RFC3339)
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

// GetNextID returns the next available work-order ID.
func (r *WorkOrderRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("WO-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM work_orders", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next work order ID: %w", err)
	}
	return fmt.Sprintf("WO-%03d", maxID+1), nil
}

func scanWorkOrder(row rowScanner) (*secondary.WorkOrderRecord, error) {
	var (
		priority    sql.NullString
		description sql.NullString
		startedAt   sql.NullString
		completedAt sql.NullString
		createdAt   time.Time
	)

	record := &secondary.WorkOrderRecord{}
	err := row.Scan(&record.ID, &record.DeviceID, &record.Type, &priority,
		&record.Status, &description, &createdAt, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	record.Priority = priority.String
	record.Description = description.String
	record.StartedAt = startedAt.String
	record.CompletedAt = completedAt.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Ensure WorkOrderRepository implements the interface
var _ secondary.WorkOrderRepository = (*WorkOrderRepository)(nil)
