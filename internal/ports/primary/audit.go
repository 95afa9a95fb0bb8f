package primary

import "context"

// AuditService defines the primary port for reading the audit trail.
// The trail is append-only; writes happen inside the mutating repositories,
// never through this interface.
type AuditService interface {
	// ListEntries lists audit entries matching the filters, newest first.
	ListEntries(ctx context.Context, filters AuditFilters) ([]*AuditEntry, error)

	// EntityHistory returns the full history of one entity in append order.
	EntityHistory(ctx context.Context, entityType, entityID string) ([]*AuditEntry, error)
}

// AuditEntry is one chain-of-custody row at the port boundary.
type AuditEntry struct {
	ID         string
	Actor      string
	EntityType string
	EntityID   string
	Action     string
	OldStatus  string
	NewStatus  string
	Reason     string
	CreatedAt  string
}

// AuditFilters contains filter options for listing audit entries.
type AuditFilters struct {
	Actor      string
	EntityType string
	Action     string
	Since      string // RFC3339
	Until      string // RFC3339
	Limit      int
}
