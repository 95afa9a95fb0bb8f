package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vreg/internal/ports/secondary"
)

// DeviceRepository implements secondary.DeviceRepository with SQLite.
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new SQLite device repository.
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

const deviceColumns = "id, name, location, ip_address, status, battery_percent, storage_percent, gps_enabled, last_seen_at, created_at"

// Create persists a new device record.
func (r *DeviceRepository) Create(ctx context.Context, dev *secondary.DeviceRecord) error {
	status := dev.Status
	if status == "" {
		status = "offline"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO devices (id, name, location, ip_address, status, battery_percent, storage_percent, gps_enabled) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		dev.ID, dev.Name, nullable(dev.Location), nullable(dev.IPAddress), status,
		dev.BatteryPercent, dev.StoragePercent, dev.GPSEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

// GetByID retrieves a device by its ID.
func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*secondary.DeviceRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+deviceColumns+" FROM devices WHERE id = ?", id)
	record, err := scanDevice(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("device %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return record, nil
}

// List retrieves devices matching the given filters.
func (r *DeviceRepository) List(ctx context.Context, filters secondary.DeviceFilters) ([]*secondary.DeviceRecord, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY id ASC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var records []*secondary.DeviceRecord
	for rows.Next() {
		record, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// UpdateTelemetry writes the telemetry fields and stamps last_seen_at.
func (r *DeviceRepository) UpdateTelemetry(ctx context.Context, t secondary.DeviceTelemetry) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE devices SET battery_percent = ?, storage_percent = ?, gps_enabled = ?, last_seen_at = ? WHERE id = ?",
		t.BatteryPercent, t.StoragePercent, t.GPSEnabled,
		time.Now().UTC().Format(time.RFC3339), t.DeviceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update telemetry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check telemetry result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("device %s: %w", t.DeviceID, secondary.ErrNotFound)
	}
	return nil
}

// SetStatus writes the device status with the audit row in-transaction.
func (r *DeviceRepository) SetStatus(ctx context.Context, id, status, actor, reason string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldStatus string
	if err := tx.QueryRowContext(ctx, "SELECT status FROM devices WHERE id = ?", id).Scan(&oldStatus); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("device %s: %w", id, secondary.ErrNotFound)
		}
		return fmt.Errorf("failed to read device: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE devices SET status = ? WHERE id = ?", status, id); err != nil {
		return fmt.Errorf("failed to set device status: %w", err)
	}

	if err := appendAudit(ctx, tx, secondary.AuditEntry{
		Actor:      actor,
		EntityType: "device",
		EntityID:   id,
		Action:     "status_changed",
		OldStatus:  oldStatus,
		NewStatus:  status,
		Reason:     reason,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// GetNextID returns the next available device ID.
func (r *DeviceRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("DEV-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM devices", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next device ID: %w", err)
	}
	return fmt.Sprintf("DEV-%03d", maxID+1), nil
}

func scanDevice(row rowScanner) (*secondary.DeviceRecord, error) {
	var (
		location   sql.NullString
		ipAddress  sql.NullString
		lastSeenAt sql.NullString
		createdAt  time.Time
	)

	record := &secondary.DeviceRecord{}
	err := row.Scan(&record.ID, &record.Name, &location, &ipAddress, &record.Status,
		&record.BatteryPercent, &record.StoragePercent, &record.GPSEnabled,
		&lastSeenAt, &createdAt)
	if err != nil {
		return nil, err
	}

	record.Location = location.String
	record.IPAddress = ipAddress.String
	record.LastSeenAt = lastSeenAt.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Ensure DeviceRepository implements the interface
var _ secondary.DeviceRepository = (*DeviceRepository)(nil)
