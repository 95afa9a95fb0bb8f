// Package exception contains the pure business logic for exception rulings.
// Guards are pure functions that evaluate preconditions without side effects.
package exception

import (
	"fmt"
	"strings"
)

// Status values for an exception.
const (
	StatusOpen        = "open"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusEscalated   = "escalated"
)

// Decision values a reviewer may apply.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Exception type values.
const (
	TypeMissingFingerprint      = "missing_fingerprint"
	TypeWornFingerprint         = "worn_fingerprint"
	TypeDisabilityAccommodation = "disability_accommodation"
	TypePhotoQuality            = "photo_quality"
	TypeDataMismatch            = "data_mismatch"
	TypeOther                   = "other"
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

// RulingContext provides context for exception ruling guards.
type RulingContext struct {
	ExceptionID string
	Status      string
}

// Actionable reports whether a status admits reviewer action.
// Only open and under_review records are actionable. Escalated records
// belong to the higher authority's queue and are terminal in this service.
func Actionable(status string) bool {
	return status == StatusOpen || status == StatusUnderReview
}

// CanReview evaluates whether an exception can be approved or rejected.
func CanReview(ctx RulingContext) GuardResult {
	if !Actionable(ctx.Status) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("exception %s is not reviewable (current status: %s)", ctx.ExceptionID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// CanEscalate evaluates whether an exception can be escalated.
// Escalation is a side-transition to a higher authority, allowed from the
// same actionable set as review.
func CanEscalate(ctx RulingContext) GuardResult {
	if !Actionable(ctx.Status) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("exception %s cannot be escalated (current status: %s)", ctx.ExceptionID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// CanClaim evaluates whether an exception can be claimed for review.
// Rule: only open exceptions can be claimed; a claimed record stays
// actionable but displays who is working it.
func CanClaim(ctx RulingContext) GuardResult {
	if ctx.Status != StatusOpen {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("exception %s cannot be claimed (current status: %s)", ctx.ExceptionID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// ValidDecision evaluates whether the ruling value is approve or reject.
func ValidDecision(decision string) GuardResult {
	if decision != DecisionApproved && decision != DecisionRejected {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid decision: %s (must be 'approved' or 'rejected')", decision),
		}
	}
	return GuardResult{Allowed: true}
}

// ValidJustification evaluates the mandatory override justification.
func ValidJustification(justification string) GuardResult {
	if strings.TrimSpace(justification) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "justification must not be empty",
		}
	}
	return GuardResult{Allowed: true}
}

// ValidTargetRole evaluates the escalation target.
func ValidTargetRole(role string) GuardResult {
	if strings.TrimSpace(role) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "escalation target role must not be empty",
		}
	}
	return GuardResult{Allowed: true}
}
