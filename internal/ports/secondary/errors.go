package secondary

import "errors"

// Sentinel error kinds shared by all repositories and services.
// Callers distinguish failure classes with errors.Is; adapters wrap these
// with fmt.Errorf("...: %w", ...) to add detail.
var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState indicates the operation is not legal from the
	// record's current status (e.g. reviewing an already-reviewed match).
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrInvalidTransition indicates a status transition not present in
	// the entity's transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates the record store could not be reached.
	ErrUnavailable = errors.New("backend unavailable")
)
