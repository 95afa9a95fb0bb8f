package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/vreg/internal/ports/primary"
)

// SecurityKeyAdapter translates CLI operations to SecurityKeyService calls.
type SecurityKeyAdapter struct {
	service primary.SecurityKeyService
	out     io.Writer
}

// NewSecurityKeyAdapter creates a new SecurityKeyAdapter with the given service.
func NewSecurityKeyAdapter(service primary.SecurityKeyService, out io.Writer) *SecurityKeyAdapter {
	return &SecurityKeyAdapter{service: service, out: out}
}

// Add registers a new key in stock.
func (a *SecurityKeyAdapter) Add(ctx context.Context, serial, kind string) error {
	key, err := a.service.AddKey(ctx, primary.AddKeyRequest{Serial: serial, Kind: kind})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Added %s key %s (serial %s)\n", key.Kind, key.ID, key.Serial)
	return nil
}

// List lists keys with optional filters.
func (a *SecurityKeyAdapter) List(ctx context.Context, filters primary.SecurityKeyFilters) error {
	keys, err := a.service.ListKeys(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Fprintln(a.out, "No keys found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-16s %-7s %-12s %s\n", "ID", "SERIAL", "KIND", "ASSIGNED TO", "STATUS")
	fmt.Fprintln(a.out, strings.Repeat("─", 60))
	for _, k := range keys {
		fmt.Fprintf(a.out, "%-10s %-16s %-7s %-12s %s\n",
			k.ID, k.Serial, k.Kind, k.AssignedTo, statusColor(k.Status))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show prints full details for one key.
func (a *SecurityKeyAdapter) Show(ctx context.Context, keyID string) error {
	key, err := a.service.GetKey(ctx, keyID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nKey: %s\n", key.ID)
	fmt.Fprintln(a.out, strings.Repeat("─", 40))
	fmt.Fprintf(a.out, "Serial:      %s\n", key.Serial)
	fmt.Fprintf(a.out, "Kind:        %s\n", key.Kind)
	fmt.Fprintf(a.out, "Status:      %s\n", statusColor(key.Status))
	if key.AssignedTo != "" {
		fmt.Fprintf(a.out, "Assigned to: %s\n", key.AssignedTo)
	}
	fmt.Fprintf(a.out, "Created:     %s\n", key.CreatedAt)
	fmt.Fprintf(a.out, "Updated:     %s\n", key.UpdatedAt)
	fmt.Fprintln(a.out)
	return nil
}

// Assign issues an in-stock key to a person.
func (a *SecurityKeyAdapter) Assign(ctx context.Context, keyID, assignedTo string) error {
	key, err := a.service.AssignKey(ctx, primary.AssignKeyRequest{KeyID: keyID, AssignedTo: assignedTo})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Key %s assigned to %s\n", key.ID, key.AssignedTo)
	return nil
}

// Return takes an assigned key back into stock.
func (a *SecurityKeyAdapter) Return(ctx context.Context, keyID string) error {
	key, err := a.service.ReturnKey(ctx, keyID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Key %s returned to stock\n", key.ID)
	return nil
}

// Revoke permanently revokes a key.
func (a *SecurityKeyAdapter) Revoke(ctx context.Context, keyID, reason string) error {
	key, err := a.service.RevokeKey(ctx, keyID, reason)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Key %s revoked\n", key.ID)
	return nil
}

// MarkLost permanently marks a key as lost.
func (a *SecurityKeyAdapter) MarkLost(ctx context.Context, keyID, reason string) error {
	key, err := a.service.MarkLost(ctx, keyID, reason)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Key %s marked lost\n", key.ID)
	return nil
}
