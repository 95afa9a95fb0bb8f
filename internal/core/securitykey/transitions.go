// Package securitykey contains the pure business logic for the hardware
// security key inventory lifecycle.
package securitykey

import (
	"fmt"
	"strings"
)

// Status values for a security key.
const (
	StatusInStock  = "in_stock"
	StatusAssigned = "assigned"
	StatusRevoked  = "revoked"
	StatusLost     = "lost"
)

// Kind values.
const (
	KindFIDO2 = "fido2"
	KindPIV   = "piv"
	KindOTP   = "otp"
)

// ValidKinds lists the accepted key kinds.
var ValidKinds = []string{KindFIDO2, KindPIV, KindOTP}

// transitions is the legal transition table. Revoked and lost are terminal:
// a compromised or missing key is never returned to stock.
var transitions = map[string][]string{
	StatusInStock:  {StatusAssigned, StatusLost},
	StatusAssigned: {StatusInStock, StatusRevoked, StatusLost},
	StatusRevoked:  {},
	StatusLost:     {},
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

// CanTransition evaluates whether a key may move between statuses.
func CanTransition(keyID, from, to string) GuardResult {
	for _, legal := range transitions[from] {
		if legal == to {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("security key %s cannot move from %s to %s", keyID, from, to),
	}
}

// SourceStatuses returns every status from which the given target is
// reachable.
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

// ValidKind evaluates the key kind.
func ValidKind(kind string) GuardResult {
	for _, k := range ValidKinds {
		if k == kind {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("invalid key kind: %s (must be one of: %s)", kind, strings.Join(ValidKinds, ", ")),
	}
}

// ValidAssignee evaluates the assignment target.
func ValidAssignee(assignee string) GuardResult {
	if strings.TrimSpace(assignee) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "assignee must not be empty",
		}
	}
	return GuardResult{Allowed: true}
}
