// Package match contains the pure business logic for dedup-match review.
// Guards are pure functions that evaluate preconditions without side effects.
package match

import (
	"fmt"
	"strings"
)

// Status values for a dedup match.
const (
	StatusPendingReview  = "pending_review"
	StatusConfirmedMatch = "confirmed_match"
	StatusFalsePositive  = "false_positive"
	StatusException      = "exception"
)

// Decision values a reviewer may apply to a pending match.
const (
	DecisionConfirmedMatch = "confirmed_match"
	DecisionFalsePositive  = "false_positive"
)

// Match type values.
const (
	TypeFingerprint = "fingerprint"
	TypeFacial      = "facial"
	TypeIris        = "iris"
	TypeMulti       = "multi"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// ReviewContext provides context for match review guards.
type ReviewContext struct {
	MatchID string
	Status  string
}

// CanReview evaluates whether a match can accept a review decision.
// Rule: only pending_review matches are reviewable. Reviewed matches are
// terminal; a second decision is rejected, never silently accepted.
func CanReview(ctx ReviewContext) GuardResult {
	if ctx.Status != StatusPendingReview {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("match %s is not pending review (current status: %s)", ctx.MatchID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// ValidDecision evaluates whether the decision value is one a reviewer may
// apply. The exception status is reached through FlagException, not Review.
func ValidDecision(decision string) GuardResult {
	if decision != DecisionConfirmedMatch && decision != DecisionFalsePositive {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid decision: %s (must be 'confirmed_match' or 'false_positive')", decision),
		}
	}
	return GuardResult{Allowed: true}
}

// ValidJustification evaluates the mandatory free-text rationale.
// Rule: non-blank after trimming. Chain-of-custody requires a reason on
// every decision.
func ValidJustification(justification string) GuardResult {
	if strings.TrimSpace(justification) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "justification must not be empty",
		}
	}
	return GuardResult{Allowed: true}
}

// TerminalStatus reports whether a match status admits no further transition.
func TerminalStatus(status string) bool {
	switch status {
	case StatusConfirmedMatch, StatusFalsePositive, StatusException:
		return true
	}
	return false
}
