package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/vreg/internal/ports/primary"
)

// ExceptionAdapter translates CLI operations to ExceptionService calls.
type ExceptionAdapter struct {
	service primary.ExceptionService
	out     io.Writer
}

// NewExceptionAdapter creates a new ExceptionAdapter with the given service.
func NewExceptionAdapter(service primary.ExceptionService, out io.Writer) *ExceptionAdapter {
	return &ExceptionAdapter{service: service, out: out}
}

// List lists exceptions with optional filters.
func (a *ExceptionAdapter) List(ctx context.Context, filters primary.ExceptionFilters) error {
	exceptions, err := a.service.ListExceptions(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list exceptions: %w", err)
	}

	if len(exceptions) == 0 {
		fmt.Fprintln(a.out, "No exceptions found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-12s %-24s %-10s %s\n", "ID", "VOTER", "TYPE", "PRIORITY", "STATUS")
	fmt.Fprintln(a.out, strings.Repeat("─", 72))
	for _, e := range exceptions {
		fmt.Fprintf(a.out, "%-10s %-12s %-24s %-10s %s\n",
			e.ID, e.VoterID, e.ExceptionType, e.Priority, statusColor(e.Status))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays details for a single exception.
func (a *ExceptionAdapter) Show(ctx context.Context, exceptionID string) error {
	e, err := a.service.GetException(ctx, exceptionID)
	if err != nil {
		return fmt.Errorf("failed to get exception: %w", err)
	}

	fmt.Fprintf(a.out, "\nException: %s\n", e.ID)
	fmt.Fprintf(a.out, "Voter:     %s\n", e.VoterID)
	fmt.Fprintf(a.out, "Type:      %s\n", e.ExceptionType)
	if e.ReasonCode != "" {
		fmt.Fprintf(a.out, "Reason:    %s\n", e.ReasonCode)
	}
	if e.Description != "" {
		fmt.Fprintf(a.out, "Details:   %s\n", e.Description)
	}
	fmt.Fprintf(a.out, "Status:    %s\n", statusColor(e.Status))
	if e.CreatedBy != "" {
		fmt.Fprintf(a.out, "Created by: %s\n", e.CreatedBy)
	}
	if e.ReviewedBy != "" {
		fmt.Fprintf(a.out, "Reviewed:  %s at %s\n", e.ReviewedBy, e.ReviewedAt)
	}
	if e.OverrideJustification != "" {
		fmt.Fprintf(a.out, "Justification: %s\n", e.OverrideJustification)
	}
	if e.EscalatedTo != "" {
		fmt.Fprintf(a.out, "Escalated to: %s\n", e.EscalatedTo)
	}
	fmt.Fprintf(a.out, "Created:   %s\n\n", e.CreatedAt)
	return nil
}

// Claim moves an open exception to under_review for the caller.
func (a *ExceptionAdapter) Claim(ctx context.Context, exceptionID string) error {
	e, err := a.service.ClaimException(ctx, exceptionID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Exception %s claimed by %s\n", e.ID, e.ReviewedBy)
	return nil
}

// Review approves or rejects an actionable exception.
func (a *ExceptionAdapter) Review(ctx context.Context, exceptionID, decision, justification string) error {
	e, err := a.service.ReviewException(ctx, primary.ReviewExceptionRequest{
		ExceptionID:   exceptionID,
		Decision:      decision,
		Justification: justification,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Exception %s ruled: %s\n", e.ID, statusColor(e.Status))
	return nil
}

// Escalate hands an actionable exception to a higher authority.
func (a *ExceptionAdapter) Escalate(ctx context.Context, exceptionID, targetRole, justification string) error {
	e, err := a.service.EscalateException(ctx, primary.EscalateExceptionRequest{
		ExceptionID:   exceptionID,
		TargetRole:    targetRole,
		Justification: justification,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Exception %s escalated to %s\n", e.ID, e.EscalatedTo)
	return nil
}
