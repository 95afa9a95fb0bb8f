// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// the record store and other external systems.
package secondary

import "context"

// MatchRepository defines the secondary port for dedup-match persistence.
type MatchRepository interface {
	// Create persists a new match record.
	Create(ctx context.Context, match *MatchRecord) error

	// GetByID retrieves a match by its ID.
	GetByID(ctx context.Context, id string) (*MatchRecord, error)

	// List retrieves matches matching the given filters.
	List(ctx context.Context, filters MatchFilters) ([]*MatchRecord, error)

	// Decide applies a review decision as a single conditional update:
	// the status write succeeds only if the record is still pending_review,
	// and the audit row is appended in the same transaction.
	// Returns ErrNotFound or ErrInvalidState on precondition failure.
	Decide(ctx context.Context, d MatchDecision) error

	// FlagException moves a pending match to the exception status and
	// creates the linked exception record, with both writes and their
	// audit rows in one transaction. A failure on either side leaves the
	// match pending. Returns ErrNotFound or ErrInvalidState on
	// precondition failure.
	FlagException(ctx context.Context, f MatchFlag) error

	// GetNextID returns the next available match ID.
	GetNextID(ctx context.Context) (string, error)
}

// MatchRecord represents a suspected duplicate pair as stored in persistence.
type MatchRecord struct {
	ID               string
	Voter1ID         string
	Voter2ID         string
	MatchScore       float64
	FingerprintScore float64 // 0 when the modality was not compared
	FacialScore      float64
	IrisScore        float64
	MatchType        string // fingerprint, facial, iris, multi
	Status           string // pending_review, confirmed_match, false_positive, exception
	Priority         string // low, medium, high, critical (may be empty)
	ReviewedBy       string
	ReviewedAt       string
	DecisionReason   string
	CreatedAt        string
}

// MatchDecision carries a reviewer decision to the store.
type MatchDecision struct {
	MatchID       string
	NewStatus     string // confirmed_match, false_positive, exception
	ReviewedBy    string
	Justification string
}

// MatchFlag carries a flag-for-exception ruling and the linked exception
// to open alongside it.
type MatchFlag struct {
	MatchID       string
	ReviewedBy    string
	Justification string
	Exception     *ExceptionRecord
}

// MatchFilters contains filter options for querying matches.
type MatchFilters struct {
	Status    string
	MatchType string
	Priority  string
	Limit     int
}

// ExceptionRepository defines the secondary port for exception persistence.
type ExceptionRepository interface {
	Create(ctx context.Context, exc *ExceptionRecord) error
	GetByID(ctx context.Context, id string) (*ExceptionRecord, error)
	List(ctx context.Context, filters ExceptionFilters) ([]*ExceptionRecord, error)

	// Claim moves an open exception to under_review, recording the actor.
	// Conditional on status == open.
	Claim(ctx context.Context, id, actor string) error

	// Decide applies approve/reject conditional on status in
	// (open, under_review), appending the audit row in the same transaction.
	Decide(ctx context.Context, d ExceptionDecision) error

	// Escalate moves the exception to escalated, recording the target role.
	// Conditional on status in (open, under_review).
	Escalate(ctx context.Context, id, targetRole, actor, justification string) error

	GetNextID(ctx context.Context) (string, error)
}

// ExceptionRecord represents a capture exception as stored in persistence.
type ExceptionRecord struct {
	ID                    string
	VoterID               string
	ExceptionType         string // missing_fingerprint, worn_fingerprint, disability_accommodation, photo_quality, data_mismatch, other
	ReasonCode            string
	Description           string
	Priority              string
	Status                string // open, under_review, approved, rejected, escalated
	CreatedBy             string
	ReviewedBy            string
	ReviewedAt            string
	OverrideJustification string
	EscalatedTo           string
	CreatedAt             string
}

// ExceptionDecision carries an approve/reject ruling to the store.
type ExceptionDecision struct {
	ExceptionID   string
	NewStatus     string // approved, rejected
	ReviewedBy    string
	Justification string
}

// ExceptionFilters contains filter options for querying exceptions.
type ExceptionFilters struct {
	Status        string
	ExceptionType string
	Priority      string
	Limit         int
}

// WorkOrderRepository defines the secondary port for work-order persistence.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *WorkOrderRecord) error
	GetByID(ctx context.Context, id string) (*WorkOrderRecord, error)
	List(ctx context.Context, filters WorkOrderFilters) ([]*WorkOrderRecord, error)

	// Transition applies a status change conditional on the current status
	// matching one of FromStatuses, stamping started_at/completed_at as
	// directed and appending the audit row in the same transaction.
	Transition(ctx context.Context, t WorkOrderTransition) error

	// AddNote appends a note to the work order's ordered note sequence.
	AddNote(ctx context.Context, workOrderID string, note *WorkOrderNote) error

	// ListNotes returns the notes for a work order in append order.
	ListNotes(ctx context.Context, workOrderID string) ([]*WorkOrderNote, error)

	GetNextID(ctx context.Context) (string, error)
}

// WorkOrderRecord represents a maintenance task as stored in persistence.
type WorkOrderRecord struct {
	ID          string
	DeviceID    string
	Type        string // preventive, corrective, calibration, firmware_update, cleaning, repair
	Priority    string // low, medium, high, critical
	Status      string // open, in_progress, awaiting_parts, completed, cancelled
	Description string
	CreatedAt   string
	StartedAt   string
	CompletedAt string
}

// WorkOrderTransition carries a status change to the store.
type WorkOrderTransition struct {
	WorkOrderID    string
	FromStatuses   []string
	NewStatus      string
	Actor          string
	StampStartedAt bool // set started_at if currently unset
	StampCompleted bool // set completed_at
}

// WorkOrderNote is one entry in a work order's append-only note sequence.
type WorkOrderNote struct {
	ID        string
	Seq       int
	Author    string
	Text      string
	CreatedAt string
}

// WorkOrderFilters contains filter options for querying work orders.
type WorkOrderFilters struct {
	DeviceID string
	Status   string
	Type     string
	Limit    int
}

// DeviceRepository defines the secondary port for device persistence.
type DeviceRepository interface {
	Create(ctx context.Context, dev *DeviceRecord) error
	GetByID(ctx context.Context, id string) (*DeviceRecord, error)
	List(ctx context.Context, filters DeviceFilters) ([]*DeviceRecord, error)

	// UpdateTelemetry writes the telemetry fields and last_seen_at.
	UpdateTelemetry(ctx context.Context, t DeviceTelemetry) error

	// SetStatus writes the device status and appends the audit row in the
	// same transaction. Devices have no transition table; any status write
	// is legal but still audited.
	SetStatus(ctx context.Context, id, status, actor, reason string) error

	GetNextID(ctx context.Context) (string, error)
}

// DeviceRecord represents a registration device as stored in persistence.
type DeviceRecord struct {
	ID             string
	Name           string
	Location       string
	IPAddress      string
	Status         string // online, offline, degraded, maintenance
	BatteryPercent int
	StoragePercent int
	GPSEnabled     bool
	LastSeenAt     string
	CreatedAt      string
}

// DeviceTelemetry carries a telemetry update to the store.
type DeviceTelemetry struct {
	DeviceID       string
	BatteryPercent int
	StoragePercent int
	GPSEnabled     bool
}

// DeviceFilters contains filter options for querying devices.
type DeviceFilters struct {
	Status string
	Limit  int
}

// SecurityKeyRepository defines the secondary port for security-key inventory.
type SecurityKeyRepository interface {
	Create(ctx context.Context, key *SecurityKeyRecord) error
	GetByID(ctx context.Context, id string) (*SecurityKeyRecord, error)
	List(ctx context.Context, filters SecurityKeyFilters) ([]*SecurityKeyRecord, error)

	// Transition applies a status change conditional on the current status
	// matching one of FromStatuses, with the audit row in-transaction.
	Transition(ctx context.Context, t SecurityKeyTransition) error

	GetNextID(ctx context.Context) (string, error)
}

// SecurityKeyRecord represents a hardware security key in inventory.
type SecurityKeyRecord struct {
	ID         string
	Serial     string
	Kind       string // fido2, piv, otp
	Status     string // in_stock, assigned, revoked, lost
	AssignedTo string
	CreatedAt  string
	UpdatedAt  string
}

// SecurityKeyTransition carries a key status change to the store.
type SecurityKeyTransition struct {
	KeyID        string
	FromStatuses []string
	NewStatus    string
	AssignedTo   string // set on assign, cleared otherwise
	Actor        string
	Reason       string
}

// SecurityKeyFilters contains filter options for querying security keys.
type SecurityKeyFilters struct {
	Status string
	Kind   string
	Limit  int
}

// AuditLogRepository defines the secondary port for the append-only audit
// trail. There is deliberately no update or delete operation.
type AuditLogRepository interface {
	// Append writes one audit entry.
	Append(ctx context.Context, entry *AuditEntry) error

	// List retrieves audit entries matching the filters, newest first.
	List(ctx context.Context, filters AuditFilters) ([]*AuditEntry, error)

	// ListByEntity retrieves all entries for one entity in append order.
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*AuditEntry, error)
}

// AuditEntry is one row of the chain-of-custody trail.
type AuditEntry struct {
	ID         string // uuid
	Actor      string
	EntityType string // dedup_match, exception, work_order, device, security_key, notification
	EntityID   string
	Action     string // reviewed, escalated, claimed, status_changed, note_added, created, dispatched
	OldStatus  string
	NewStatus  string
	Reason     string
	CreatedAt  string
}

// AuditFilters contains filter options for querying the audit trail.
type AuditFilters struct {
	Actor      string
	EntityType string
	Action     string
	Since      string // RFC3339, inclusive
	Until      string // RFC3339, inclusive
	Limit      int
}

// NotificationRepository defines the secondary port for in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *NotificationRecord) error
	ListByRecipient(ctx context.Context, email string, limit int) ([]*NotificationRecord, error)
}

// NotificationRecord is one in-app notification row.
type NotificationRecord struct {
	ID             string // uuid
	Type           string
	RecipientEmail string
	RecipientName  string
	Payload        string // JSON-encoded data map
	CreatedAt      string
}
