// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// all business logic to the services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/vreg/internal/ports/primary"
)

// MatchAdapter translates CLI operations to MatchService calls.
type MatchAdapter struct {
	service primary.MatchService
	out     io.Writer
}

// NewMatchAdapter creates a new MatchAdapter with the given service.
func NewMatchAdapter(service primary.MatchService, out io.Writer) *MatchAdapter {
	return &MatchAdapter{service: service, out: out}
}

// List lists matches with optional filters.
func (a *MatchAdapter) List(ctx context.Context, filters primary.MatchFilters) error {
	matches, err := a.service.ListMatches(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}

	if len(matches) == 0 {
		fmt.Fprintln(a.out, "No matches found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-12s %-12s %-7s %-12s %s\n", "ID", "VOTER 1", "VOTER 2", "SCORE", "TYPE", "STATUS")
	fmt.Fprintln(a.out, strings.Repeat("─", 72))
	for _, m := range matches {
		fmt.Fprintf(a.out, "%-10s %-12s %-12s %-7.1f %-12s %s\n",
			m.ID, m.Voter1ID, m.Voter2ID, m.MatchScore, m.MatchType, statusColor(m.Status))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays details for a single match.
func (a *MatchAdapter) Show(ctx context.Context, matchID string) error {
	m, err := a.service.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}

	fmt.Fprintf(a.out, "\nMatch:   %s\n", m.ID)
	fmt.Fprintf(a.out, "Voters:  %s / %s\n", m.Voter1ID, m.Voter2ID)
	fmt.Fprintf(a.out, "Score:   %.1f (%s)\n", m.MatchScore, m.MatchType)
	if m.FingerprintScore > 0 {
		fmt.Fprintf(a.out, "  fingerprint: %.1f\n", m.FingerprintScore)
	}
	if m.FacialScore > 0 {
		fmt.Fprintf(a.out, "  facial:      %.1f\n", m.FacialScore)
	}
	if m.IrisScore > 0 {
		fmt.Fprintf(a.out, "  iris:        %.1f\n", m.IrisScore)
	}
	fmt.Fprintf(a.out, "Status:  %s\n", statusColor(m.Status))
	if m.Priority != "" {
		fmt.Fprintf(a.out, "Priority: %s\n", m.Priority)
	}
	if m.ReviewedBy != "" {
		fmt.Fprintf(a.out, "Reviewed: %s at %s\n", m.ReviewedBy, m.ReviewedAt)
		fmt.Fprintf(a.out, "Reason:   %s\n", m.DecisionReason)
	}
	fmt.Fprintf(a.out, "Created: %s\n\n", m.CreatedAt)
	return nil
}

// Review applies a reviewer decision to a pending match.
func (a *MatchAdapter) Review(ctx context.Context, matchID, decision, justification string) error {
	m, err := a.service.ReviewMatch(ctx, primary.ReviewMatchRequest{
		MatchID:       matchID,
		Decision:      decision,
		Justification: justification,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Match %s reviewed: %s\n", m.ID, statusColor(m.Status))
	return nil
}

// FlagException flags a pending match for manual exception ruling.
func (a *MatchAdapter) FlagException(ctx context.Context, matchID, justification string) error {
	m, err := a.service.FlagException(ctx, primary.FlagExceptionRequest{
		MatchID:       matchID,
		Justification: justification,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Match %s flagged as exception; a linked exception is open for ruling\n", m.ID)
	return nil
}

// statusColor renders a status string with the conventional color for its
// severity class.
func statusColor(status string) string {
	switch status {
	case "pending_review", "open", "in_stock":
		return color.New(color.FgYellow).Sprint(status)
	case "under_review", "in_progress", "awaiting_parts", "assigned", "maintenance":
		return color.New(color.FgCyan).Sprint(status)
	case "confirmed_match", "approved", "completed", "online":
		return color.New(color.FgHiGreen).Sprint(status)
	case "false_positive", "rejected", "cancelled", "offline", "revoked", "lost":
		return color.New(color.FgRed).Sprint(status)
	case "exception", "escalated", "degraded":
		return color.New(color.FgHiMagenta).Sprint(status)
	default:
		return status
	}
}
