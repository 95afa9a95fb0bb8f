package app

import (
	"context"
	"fmt"

	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// AuditServiceImpl implements the read-only AuditService interface.
type AuditServiceImpl struct {
	auditRepo secondary.AuditLogRepository
}

// NewAuditService creates a new AuditService with injected dependencies.
func NewAuditService(auditRepo secondary.AuditLogRepository) *AuditServiceImpl {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

// ListEntries lists audit entries matching the filters, newest first.
func (s *AuditServiceImpl) ListEntries(ctx context.Context, filters primary.AuditFilters) ([]*primary.AuditEntry, error) {
	records, err := s.auditRepo.List(ctx, secondary.AuditFilters{
		Actor:      filters.Actor,
		EntityType: filters.EntityType,
		Action:     filters.Action,
		Since:      filters.Since,
		Until:      filters.Until,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return s.recordsToEntries(records), nil
}

// EntityHistory returns the full history of one entity in append order.
func (s *AuditServiceImpl) EntityHistory(ctx context.Context, entityType, entityID string) ([]*primary.AuditEntry, error) {
	records, err := s.auditRepo.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity history: %w", err)
	}
	return s.recordsToEntries(records), nil
}

func (s *AuditServiceImpl) recordsToEntries(records []*secondary.AuditEntry) []*primary.AuditEntry {
	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.AuditEntry{
			ID:         r.ID,
			Actor:      r.Actor,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Action:     r.Action,
			OldStatus:  r.OldStatus,
			NewStatus:  r.NewStatus,
			Reason:     r.Reason,
			CreatedAt:  r.CreatedAt,
		}
	}
	return entries
}

// Ensure AuditServiceImpl implements the interface
var _ primary.AuditService = (*AuditServiceImpl)(nil)
