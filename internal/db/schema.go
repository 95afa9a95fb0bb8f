package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database schema. Repository
// tests load it through GetSchemaSQL(), so a column referenced by adapter
// code but missing here fails tests immediately with "no such column"
// instead of surfacing in production.
const SchemaSQL = `
-- Dedup matches (candidate duplicate pairs from the external matcher)
CREATE TABLE IF NOT EXISTS dedup_matches (
	id TEXT PRIMARY KEY,
	voter1_id TEXT NOT NULL,
	voter2_id TEXT NOT NULL,
	match_score REAL NOT NULL CHECK(match_score >= 0 AND match_score <= 100),
	fingerprint_score REAL,
	facial_score REAL,
	iris_score REAL,
	match_type TEXT NOT NULL CHECK(match_type IN ('fingerprint', 'facial', 'iris', 'multi')),
	status TEXT NOT NULL CHECK(status IN ('pending_review', 'confirmed_match', 'false_positive', 'exception')) DEFAULT 'pending_review',
	priority TEXT CHECK(priority IN ('low', 'medium', 'high', 'critical')),
	reviewed_by TEXT,
	reviewed_at DATETIME,
	decision_reason TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_dedup_matches_status ON dedup_matches(status);

-- Capture exceptions awaiting a manual ruling
CREATE TABLE IF NOT EXISTS exceptions (
	id TEXT PRIMARY KEY,
	voter_id TEXT NOT NULL,
	exception_type TEXT NOT NULL CHECK(exception_type IN ('missing_fingerprint', 'worn_fingerprint', 'disability_accommodation', 'photo_quality', 'data_mismatch', 'other')),
	reason_code TEXT,
	description TEXT,
	priority TEXT CHECK(priority IN ('low', 'medium', 'high', 'critical')),
	status TEXT NOT NULL CHECK(status IN ('open', 'under_review', 'approved', 'rejected', 'escalated')) DEFAULT 'open',
	created_by TEXT,
	reviewed_by TEXT,
	reviewed_at DATETIME,
	override_justification TEXT,
	escalated_to TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_exceptions_status ON exceptions(status);

-- Registration devices (passive records, telemetry-owned)
CREATE TABLE IF NOT EXISTS devices (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	location TEXT,
	ip_address TEXT,
	status TEXT NOT NULL CHECK(status IN ('online', 'offline', 'degraded', 'maintenance')) DEFAULT 'offline',
	battery_percent INTEGER DEFAULT 0,
	storage_percent INTEGER DEFAULT 0,
	gps_enabled BOOLEAN DEFAULT 0,
	last_seen_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Maintenance work orders
CREATE TABLE IF NOT EXISTS work_orders (
	id TEXT PRIMARY KEY,
	device_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('preventive', 'corrective', 'calibration', 'firmware_update', 'cleaning', 'repair')),
	priority TEXT NOT NULL CHECK(priority IN ('low', 'medium', 'high', 'critical')),
	status TEXT NOT NULL CHECK(status IN ('open', 'in_progress', 'awaiting_parts', 'completed', 'cancelled')) DEFAULT 'open',
	description TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	started_at DATETIME,
	completed_at DATETIME,
	FOREIGN KEY (device_id) REFERENCES devices(id)
);

CREATE INDEX IF NOT EXISTS idx_work_orders_device ON work_orders(device_id);

-- Append-only work order notes, ordered by seq per work order
CREATE TABLE IF NOT EXISTS work_order_notes (
	id TEXT PRIMARY KEY,
	work_order_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	author TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (work_order_id) REFERENCES work_orders(id),
	UNIQUE(work_order_id, seq)
);

-- Hardware security key inventory
CREATE TABLE IF NOT EXISTS security_keys (
	id TEXT PRIMARY KEY,
	serial TEXT NOT NULL UNIQUE,
	kind TEXT NOT NULL CHECK(kind IN ('fido2', 'piv', 'otp')),
	status TEXT NOT NULL CHECK(status IN ('in_stock', 'assigned', 'revoked', 'lost')) DEFAULT 'in_stock',
	assigned_to TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Append-only audit trail. No update or delete path exists in the code.
CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	actor TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL,
	old_status TEXT,
	new_status TEXT,
	reason TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs(entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_audit_logs_actor ON audit_logs(actor);

-- In-app notification rows written by the dispatcher
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	recipient_email TEXT NOT NULL,
	recipient_name TEXT,
	payload TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema for tests and migrations.
func GetSchemaSQL() string {
	return SchemaSQL
}

// InitSchema creates all tables on the given connection.
func InitSchema(conn *sql.DB) error {
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return err
	}
	return runMigrations(conn)
}
