package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order. Fresh installs get the
// full schema from SchemaSQL; migrations exist for databases created before
// a schema change shipped.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_escalated_to_column_to_exceptions",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_security_keys_table",
		Up:      migrationV2,
	},
}

// runMigrations applies pending migrations in order.
func runMigrations(conn *sql.DB) error {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := m.Up(conn); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := conn.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func migrationV1(conn *sql.DB) error {
	if columnExists(conn, "exceptions", "escalated_to") {
		return nil
	}
	_, err := conn.Exec("ALTER TABLE exceptions ADD COLUMN escalated_to TEXT")
	return err
}

func migrationV2(conn *sql.DB) error {
	// SchemaSQL already carries the table; CREATE IF NOT EXISTS makes this
	// idempotent on fresh installs.
	_, err := conn.Exec(`CREATE TABLE IF NOT EXISTS security_keys (
		id TEXT PRIMARY KEY,
		serial TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL CHECK(kind IN ('fido2', 'piv', 'otp')),
		status TEXT NOT NULL CHECK(status IN ('in_stock', 'assigned', 'revoked', 'lost')) DEFAULT 'in_stock',
		assigned_to TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func columnExists(conn *sql.DB, table, column string) bool {
	rows, err := conn.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
