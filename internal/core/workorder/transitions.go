// Package workorder contains the pure business logic for maintenance
// work-order lifecycle transitions.
package workorder

import (
	"fmt"
	"strings"
)

// Status values for a work order.
const (
	StatusOpen          = "open"
	StatusInProgress    = "in_progress"
	StatusAwaitingParts = "awaiting_parts"
	StatusCompleted     = "completed"
	StatusCancelled     = "cancelled"
)

// Work order type values.
const (
	TypePreventive     = "preventive"
	TypeCorrective     = "corrective"
	TypeCalibration    = "calibration"
	TypeFirmwareUpdate = "firmware_update"
	TypeCleaning       = "cleaning"
	TypeRepair         = "repair"
)

// ValidTypes lists the accepted work order types.
var ValidTypes = []string{
	TypePreventive, TypeCorrective, TypeCalibration,
	TypeFirmwareUpdate, TypeCleaning, TypeRepair,
}

// transitions is the legal transition table. Completed and cancelled are
// terminal. awaiting_parts and in_progress cycle while parts arrive.
var transitions = map[string][]string{
	StatusOpen:          {StatusInProgress, StatusCancelled},
	StatusInProgress:    {StatusCompleted, StatusAwaitingParts, StatusCancelled},
	StatusAwaitingParts: {StatusInProgress, StatusCancelled},
	StatusCompleted:     {},
	StatusCancelled:     {},
}

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

// CanTransition evaluates whether a work order may move from one status to
// another according to the transition table.
func CanTransition(workOrderID, from, to string) GuardResult {
	for _, legal := range transitions[from] {
		if legal == to {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("work order %s cannot move from %s to %s", workOrderID, from, to),
	}
}

// SourceStatuses returns every status from which the given target is
// reachable. Used by the store adapter to build the conditional update.
func SourceStatuses(to string) []string {
	var from []string
	for s, targets := range transitions {
		for _, t := range targets {
			if t == to {
				from = append(from, s)
			}
		}
	}
	return from
}

// StampsStartedAt reports whether entering the status records started_at.
// started_at is stamped on first entry into in_progress only.
func StampsStartedAt(to string) bool {
	return to == StatusInProgress
}

// StampsCompletedAt reports whether entering the status records completed_at.
func StampsCompletedAt(to string) bool {
	return to == StatusCompleted
}

// TerminalStatus reports whether a work order status admits no transition.
func TerminalStatus(status string) bool {
	return len(transitions[status]) == 0
}

// ValidType evaluates the work order type.
func ValidType(woType string) GuardResult {
	for _, t := range ValidTypes {
		if t == woType {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("invalid work order type: %s (must be one of: %s)", woType, strings.Join(ValidTypes, ", ")),
	}
}

// ValidNoteText evaluates a note body before it is appended.
func ValidNoteText(text string) GuardResult {
	if strings.TrimSpace(text) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "note text must not be empty",
		}
	}
	return GuardResult{Allowed: true}
}
