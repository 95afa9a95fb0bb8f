package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/vreg/internal/ports/secondary"
)

func TestSecurityKeyRepositoryTransition(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSecurityKeyRepository(conn)
	ctx := context.Background()

	insertTestKey(t, conn, "KEY-001", "YK-5C-0001", "in_stock")

	assign := secondary.SecurityKeyTransition{
		KeyID:        "KEY-001",
		FromStatuses: []string{"in_stock"},
		NewStatus:    "assigned",
		AssignedTo:   "clerk@ec.gov",
		Actor:        "admin@ec.gov",
	}
	if err := repo.Transition(ctx, assign); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "KEY-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != "assigned" || got.AssignedTo != "clerk@ec.gov" {
		t.Errorf("expected assigned to clerk, got %s / %q", got.Status, got.AssignedTo)
	}

	revoke := secondary.SecurityKeyTransition{
		KeyID:        "KEY-001",
		FromStatuses: []string{"assigned"},
		NewStatus:    "revoked",
		Actor:        "admin@ec.gov",
		Reason:       "holder left the commission",
	}
	if err := repo.Transition(ctx, revoke); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	got, _ = repo.GetByID(ctx, "KEY-001")
	if got.Status != "revoked" {
		t.Errorf("expected revoked, got %s", got.Status)
	}
	if got.AssignedTo != "" {
		t.Errorf("expected assignment cleared, got %q", got.AssignedTo)
	}

	// revoked is terminal
	err = repo.Transition(ctx, secondary.SecurityKeyTransition{
		KeyID:        "KEY-001",
		FromStatuses: []string{"assigned"},
		NewStatus:    "in_stock",
		Actor:        "admin@ec.gov",
	})
	if !errors.Is(err, secondary.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}

	entries := auditEntries(t, conn, "security_key", "KEY-001")
	if len(entries) != 2 {
		t.Errorf("expected 2 audit entries, got %d", len(entries))
	}
}

func TestSecurityKeyRepositoryListFilters(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSecurityKeyRepository(conn)
	ctx := context.Background()

	insertTestKey(t, conn, "KEY-001", "YK-5C-0001", "in_stock")
	insertTestKey(t, conn, "KEY-002", "YK-5C-0002", "assigned")
	insertTestKey(t, conn, "KEY-003", "YK-5C-0003", "in_stock")

	inStock, err := repo.List(ctx, secondary.SecurityKeyFilters{Status: "in_stock"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(inStock) != 2 {
		t.Errorf("expected 2 in-stock keys, got %d", len(inStock))
	}
}

func TestSecurityKeyRepositoryGetNextID(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSecurityKeyRepository(conn)
	ctx := context.Background()

	insertTestKey(t, conn, "KEY-004", "YK-5C-0004", "in_stock")
	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "KEY-005" {
		t.Errorf("expected KEY-005, got %s", id)
	}
}
