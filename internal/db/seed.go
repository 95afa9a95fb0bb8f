package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a small
// device fleet, pending matches across score bands, open exceptions, and an
// in-flight work order. Never run against production data.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)

	devices := []struct {
		id, name, location, ip, status string
		battery, storage               int
	}{
		{"DEV-001", "Kiosk Alpha", "District 4 registration center", "10.20.0.11", "online", 87, 42},
		{"DEV-002", "Kiosk Beta", "District 4 registration center", "10.20.0.12", "degraded", 23, 91},
		{"DEV-003", "Mobile Unit 7", "Northern field circuit", "10.31.5.7", "offline", 0, 55},
	}
	for _, d := range devices {
		if _, err := database.Exec(
			"INSERT INTO devices (id, name, location, ip_address, status, battery_percent, storage_percent, gps_enabled, last_seen_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)",
			d.id, d.name, d.location, d.ip, d.status, d.battery, d.storage, now, now,
		); err != nil {
			return fmt.Errorf("seed devices: %w", err)
		}
	}

	matches := []struct {
		id, v1, v2, mtype, priority string
		score                       float64
	}{
		{"DM-001", "VTR-100482", "VTR-204817", "fingerprint", "critical", 96.4},
		{"DM-002", "VTR-118290", "VTR-118291", "multi", "high", 88.1},
		{"DM-003", "VTR-130555", "VTR-987001", "facial", "medium", 72.9},
	}
	for _, m := range matches {
		if _, err := database.Exec(
			"INSERT INTO dedup_matches (id, voter1_id, voter2_id, match_score, match_type, status, priority, created_at) VALUES (?, ?, ?, ?, ?, 'pending_review', ?, ?)",
			m.id, m.v1, m.v2, m.score, m.mtype, m.priority, now,
		); err != nil {
			return fmt.Errorf("seed matches: %w", err)
		}
	}

	exceptions := []struct {
		id, voter, etype, desc, priority string
	}{
		{"EXC-001", "VTR-144902", "worn_fingerprint", "agricultural worker, ridge detail insufficient on both hands", "medium"},
		{"EXC-002", "VTR-150331", "disability_accommodation", "registrant unable to position for iris capture", "high"},
	}
	for _, e := range exceptions {
		if _, err := database.Exec(
			"INSERT INTO exceptions (id, voter_id, exception_type, reason_code, description, priority, status, created_by, created_at) VALUES (?, ?, ?, 'capture_failed', ?, ?, 'open', 'registrar@field.ec.gov', ?)",
			e.id, e.voter, e.etype, e.desc, e.priority, now,
		); err != nil {
			return fmt.Errorf("seed exceptions: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO work_orders (id, device_id, type, priority, status, description, created_at) VALUES ('WO-001', 'DEV-002', 'corrective', 'high', 'open', 'fingerprint scanner intermittent blank frames', ?)",
		now,
	); err != nil {
		return fmt.Errorf("seed work orders: %w", err)
	}

	if _, err := database.Exec(
		"INSERT INTO security_keys (id, serial, kind, status, created_at, updated_at) VALUES ('KEY-001', 'YK5-88231', 'fido2', 'in_stock', ?, ?)",
		now, now,
	); err != nil {
		return fmt.Errorf("seed security keys: %w", err)
	}

	return nil
}
