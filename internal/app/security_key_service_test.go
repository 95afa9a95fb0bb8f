package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/example/vreg/internal/core/securitykey"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// mockSecurityKeyRepository implements secondary.SecurityKeyRepository for testing.
type mockSecurityKeyRepository struct {
	keys   map[string]*secondary.SecurityKeyRecord
	nextID int
}

func newMockSecurityKeyRepository() *mockSecurityKeyRepository {
	return &mockSecurityKeyRepository{
		keys:   make(map[string]*secondary.SecurityKeyRecord),
		nextID: 1,
	}
}

func (m *mockSecurityKeyRepository) Create(ctx context.Context, record *secondary.SecurityKeyRecord) error {
	m.keys[record.ID] = record
	return nil
}

func (m *mockSecurityKeyRepository) GetByID(ctx context.Context, id string) (*secondary.SecurityKeyRecord, error) {
	if r, ok := m.keys[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("security key %s: %w", id, secondary.ErrNotFound)
}

func (m *mockSecurityKeyRepository) List(ctx context.Context, filters secondary.SecurityKeyFilters) ([]*secondary.SecurityKeyRecord, error) {
	var result []*secondary.SecurityKeyRecord
	for _, r := range m.keys {
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.Kind != "" && r.Kind != filters.Kind {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockSecurityKeyRepository) Transition(ctx context.Context, t secondary.SecurityKeyTransition) error {
	r, ok := m.keys[t.KeyID]
	if !ok {
		return fmt.Errorf("security key %s: %w", t.KeyID, secondary.ErrNotFound)
	}
	if !slices.Contains(t.FromStatuses, r.Status) {
		return fmt.Errorf("security key %s is %s: %w", t.KeyID, r.Status, secondary.ErrInvalidTransition)
	}
	r.Status = t.NewStatus
	r.AssignedTo = t.AssignedTo
	r.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return nil
}

func (m *mockSecurityKeyRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("KEY-%03d", id), nil
}

func TestSecurityKeyLifecycle(t *testing.T) {
	repo := newMockSecurityKeyRepository()
	svc := NewSecurityKeyService(repo)

	added, err := svc.AddKey(reviewerCtx(), primary.AddKeyRequest{Serial: "YK5-88231", Kind: securitykey.KindFIDO2})
	if err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}
	if added.Status != securitykey.StatusInStock {
		t.Errorf("Status = %s, want in_stock", added.Status)
	}

	assigned, err := svc.AssignKey(reviewerCtx(), primary.AssignKeyRequest{KeyID: added.ID, AssignedTo: "operator@ec.gov"})
	if err != nil {
		t.Fatalf("AssignKey failed: %v", err)
	}
	if assigned.Status != securitykey.StatusAssigned || assigned.AssignedTo != "operator@ec.gov" {
		t.Errorf("assignment not recorded: %+v", assigned)
	}

	revoked, err := svc.RevokeKey(reviewerCtx(), added.ID, "operator offboarded")
	if err != nil {
		t.Fatalf("RevokeKey failed: %v", err)
	}
	if revoked.Status != securitykey.StatusRevoked {
		t.Errorf("Status = %s, want revoked", revoked.Status)
	}

	// Revoked is terminal: the key never goes back to stock.
	_, err = svc.ReturnKey(reviewerCtx(), added.ID)
	if !errors.Is(err, secondary.ErrInvalidTransition) {
		t.Fatalf("return after revoke error = %v, want ErrInvalidTransition", err)
	}
}

func TestAddKeyValidation(t *testing.T) {
	svc := NewSecurityKeyService(newMockSecurityKeyRepository())

	if _, err := svc.AddKey(reviewerCtx(), primary.AddKeyRequest{Serial: "", Kind: securitykey.KindPIV}); !errors.Is(err, secondary.ErrValidation) {
		t.Errorf("blank serial error = %v, want ErrValidation", err)
	}
	if _, err := svc.AddKey(reviewerCtx(), primary.AddKeyRequest{Serial: "X1", Kind: "usb"}); !errors.Is(err, secondary.ErrValidation) {
		t.Errorf("bad kind error = %v, want ErrValidation", err)
	}
}

func TestAssignKeyRequiresAssignee(t *testing.T) {
	repo := newMockSecurityKeyRepository()
	svc := NewSecurityKeyService(repo)
	added, _ := svc.AddKey(reviewerCtx(), primary.AddKeyRequest{Serial: "YK5-1", Kind: securitykey.KindOTP})

	_, err := svc.AssignKey(reviewerCtx(), primary.AssignKeyRequest{KeyID: added.ID, AssignedTo: " "})
	if !errors.Is(err, secondary.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
