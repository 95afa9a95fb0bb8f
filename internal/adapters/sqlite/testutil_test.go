package sqlite

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/vreg/internal/db"
	"github.com/example/vreg/internal/ports/secondary"
)

// setupTestDB opens an in-memory database with the full schema loaded.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := conn.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to load schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func insertTestMatch(t *testing.T, conn *sql.DB, id, status string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO dedup_matches (id, voter1_id, voter2_id, match_score, match_type, status) VALUES (?, 'VOT-1001', 'VOT-2002', 97.5, 'fingerprint', ?)",
		id, status,
	)
	if err != nil {
		t.Fatalf("failed to insert match fixture: %v", err)
	}
}

func insertTestException(t *testing.T, conn *sql.DB, id, status string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO exceptions (id, voter_id, exception_type, status, created_by) VALUES (?, 'VOT-3003', 'worn_fingerprint', ?, 'clerk@ec.gov')",
		id, status,
	)
	if err != nil {
		t.Fatalf("failed to insert exception fixture: %v", err)
	}
}

func insertTestDevice(t *testing.T, conn *sql.DB, id, status string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO devices (id, name, location, status) VALUES (?, 'Kit '||?, 'Nairobi West', ?)",
		id, id, status,
	)
	if err != nil {
		t.Fatalf("failed to insert device fixture: %v", err)
	}
}

func insertTestWorkOrder(t *testing.T, conn *sql.DB, id, deviceID, status string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO work_orders (id, device_id, type, priority, status) VALUES (?, ?, 'corrective', 'high', ?)",
		id, deviceID, status,
	)
	if err != nil {
		t.Fatalf("failed to insert work order fixture: %v", err)
	}
}

func insertTestKey(t *testing.T, conn *sql.DB, id, serial, status string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO security_keys (id, serial, kind, status) VALUES (?, ?, 'fido2', ?)",
		id, serial, status,
	)
	if err != nil {
		t.Fatalf("failed to insert security key fixture: %v", err)
	}
}

// auditEntries returns the audit rows for one entity in append order.
func auditEntries(t *testing.T, conn *sql.DB, entityType, entityID string) []*secondary.AuditEntry {
	t.Helper()
	repo := NewAuditLogRepository(conn)
	entries, err := repo.ListByEntity(context.Background(), entityType, entityID)
	if err != nil {
		t.Fatalf("failed to read audit trail: %v", err)
	}
	return entries
}
