package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/vreg/internal/core/filter"
	"github.com/example/vreg/internal/core/securitykey"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// SecurityKeyServiceImpl implements the SecurityKeyService interface.
type SecurityKeyServiceImpl struct {
	keyRepo secondary.SecurityKeyRepository
}

// NewSecurityKeyService creates a new SecurityKeyService with injected dependencies.
func NewSecurityKeyService(keyRepo secondary.SecurityKeyRepository) *SecurityKeyServiceImpl {
	return &SecurityKeyServiceImpl{keyRepo: keyRepo}
}

// AddKey registers a new key in stock.
func (s *SecurityKeyServiceImpl) AddKey(ctx context.Context, req primary.AddKeyRequest) (*primary.SecurityKey, error) {
	if strings.TrimSpace(req.Serial) == "" {
		return nil, fmt.Errorf("%w: serial must not be empty", secondary.ErrValidation)
	}
	if g := securitykey.ValidKind(req.Kind); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}

	nextID, err := s.keyRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key ID: %w", err)
	}

	record := &secondary.SecurityKeyRecord{
		ID:     nextID,
		Serial: req.Serial,
		Kind:   req.Kind,
		Status: securitykey.StatusInStock,
	}
	if err := s.keyRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add key: %w", err)
	}

	created, err := s.keyRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch added key: %w", err)
	}
	return s.recordToKey(created), nil
}

// GetKey retrieves a key by ID.
func (s *SecurityKeyServiceImpl) GetKey(ctx context.Context, keyID string) (*primary.SecurityKey, error) {
	record, err := s.keyRepo.GetByID(ctx, keyID)
	if err != nil {
		return nil, err
	}
	return s.recordToKey(record), nil
}

// ListKeys lists keys with optional filters.
func (s *SecurityKeyServiceImpl) ListKeys(ctx context.Context, filters primary.SecurityKeyFilters) ([]*primary.SecurityKey, error) {
	records, err := s.keyRepo.List(ctx, secondary.SecurityKeyFilters{
		Status: filters.Status,
		Kind:   filters.Kind,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	keys := make([]*primary.SecurityKey, len(records))
	for i, r := range records {
		keys[i] = s.recordToKey(r)
	}
	if filters.Search != "" {
		keys = filter.Apply(keys, filter.TextSearch(filters.Search, func(k *primary.SecurityKey) []string {
			return []string{k.ID, k.Serial, k.AssignedTo}
		}))
	}
	return keys, nil
}

// AssignKey issues an in-stock key to a person.
func (s *SecurityKeyServiceImpl) AssignKey(ctx context.Context, req primary.AssignKeyRequest) (*primary.SecurityKey, error) {
	if g := securitykey.ValidAssignee(req.AssignedTo); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}
	return s.transition(ctx, req.KeyID, securitykey.StatusAssigned, req.AssignedTo, fmt.Sprintf("assigned to %s", req.AssignedTo))
}

// ReturnKey takes an assigned key back into stock.
func (s *SecurityKeyServiceImpl) ReturnKey(ctx context.Context, keyID string) (*primary.SecurityKey, error) {
	return s.transition(ctx, keyID, securitykey.StatusInStock, "", "returned to stock")
}

// RevokeKey permanently revokes an assigned key.
func (s *SecurityKeyServiceImpl) RevokeKey(ctx context.Context, keyID, reason string) (*primary.SecurityKey, error) {
	return s.transition(ctx, keyID, securitykey.StatusRevoked, "", reason)
}

// MarkLost permanently marks a key as lost.
func (s *SecurityKeyServiceImpl) MarkLost(ctx context.Context, keyID, reason string) (*primary.SecurityKey, error) {
	return s.transition(ctx, keyID, securitykey.StatusLost, "", reason)
}

func (s *SecurityKeyServiceImpl) transition(ctx context.Context, keyID, newStatus, assignedTo, reason string) (*primary.SecurityKey, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	// Advisory pre-check; the store re-checks the source status
	// atomically inside Transition.
	existing, err := s.keyRepo.GetByID(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if g := securitykey.CanTransition(existing.ID, existing.Status, newStatus); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrInvalidTransition, g.Reason)
	}

	if err := s.keyRepo.Transition(ctx, secondary.SecurityKeyTransition{
		KeyID:        keyID,
		FromStatuses: securitykey.SourceStatuses(newStatus),
		NewStatus:    newStatus,
		AssignedTo:   assignedTo,
		Actor:        actor,
		Reason:       reason,
	}); err != nil {
		return nil, err
	}

	updated, err := s.keyRepo.GetByID(ctx, keyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated key: %w", err)
	}
	return s.recordToKey(updated), nil
}

func (s *SecurityKeyServiceImpl) recordToKey(r *secondary.SecurityKeyRecord) *primary.SecurityKey {
	return &primary.SecurityKey{
		ID:         r.ID,
		Serial:     r.Serial,
		Kind:       r.Kind,
		Status:     r.Status,
		AssignedTo: r.AssignedTo,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Ensure SecurityKeyServiceImpl implements the interface
var _ primary.SecurityKeyService = (*SecurityKeyServiceImpl)(nil)
