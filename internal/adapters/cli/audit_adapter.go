package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/vreg/internal/ports/primary"
)

// AuditAdapter translates CLI operations to AuditService calls.
type AuditAdapter struct {
	service primary.AuditService
	out     io.Writer
}

// NewAuditAdapter creates a new AuditAdapter with the given service.
func NewAuditAdapter(service primary.AuditService, out io.Writer) *AuditAdapter {
	return &AuditAdapter{service: service, out: out}
}

// List lists audit entries with optional filters, newest first.
func (a *AuditAdapter) List(ctx context.Context, filters primary.AuditFilters) error {
	entries, err := a.service.ListEntries(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list audit entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No audit entries found")
		return nil
	}

	a.printEntries(entries)
	return nil
}

// History prints the full audit history of one entity in append order.
func (a *AuditAdapter) History(ctx context.Context, entityType, entityID string) error {
	entries, err := a.service.EntityHistory(ctx, entityType, entityID)
	if err != nil {
		return fmt.Errorf("failed to get entity history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(a.out, "No history for %s %s\n", entityType, entityID)
		return nil
	}

	a.printEntries(entries)
	return nil
}

func (a *AuditAdapter) printEntries(entries []*primary.AuditEntry) {
	fmt.Fprintf(a.out, "\n%-20s %-20s %-22s %-14s %s\n", "WHEN", "ACTOR", "ENTITY", "ACTION", "CHANGE")
	fmt.Fprintln(a.out, strings.Repeat("─", 96))
	for _, e := range entries {
		change := ""
		if e.OldStatus != "" || e.NewStatus != "" {
			change = fmt.Sprintf("%s → %s", e.OldStatus, e.NewStatus)
		} else if e.Reason != "" {
			change = e.Reason
		}
		fmt.Fprintf(a.out, "%-20s %-20s %-22s %-14s %s\n",
			e.CreatedAt, e.Actor, e.EntityType+" "+e.EntityID, e.Action, change)
	}
	fmt.Fprintln(a.out)
}
