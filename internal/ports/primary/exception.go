package primary

import "context"

// ExceptionService defines the primary port for exception rulings.
type ExceptionService interface {
	// GetException retrieves an exception by ID.
	GetException(ctx context.Context, exceptionID string) (*Exception, error)

	// ListExceptions lists exceptions with optional filters.
	ListExceptions(ctx context.Context, filters ExceptionFilters) ([]*Exception, error)

	// ClaimException moves an open exception to under_review for the
	// calling reviewer.
	ClaimException(ctx context.Context, exceptionID string) (*Exception, error)

	// ReviewException approves or rejects an actionable exception.
	ReviewException(ctx context.Context, req ReviewExceptionRequest) (*Exception, error)

	// EscalateException hands an actionable exception to a higher
	// authority. Escalated exceptions are terminal in this service.
	EscalateException(ctx context.Context, req EscalateExceptionRequest) (*Exception, error)
}

// ReviewExceptionRequest contains parameters for ruling on an exception.
type ReviewExceptionRequest struct {
	ExceptionID   string
	Decision      string // approved, rejected
	Justification string
}

// EscalateExceptionRequest contains parameters for escalating an exception.
type EscalateExceptionRequest struct {
	ExceptionID   string
	TargetRole    string
	Justification string
}

// Exception represents a capture exception at the port boundary.
type Exception struct {
	ID                    string
	VoterID               string
	ExceptionType         string
	ReasonCode            string
	Description           string
	Priority              string
	Status                string
	CreatedBy             string
	ReviewedBy            string
	ReviewedAt            string
	OverrideJustification string
	EscalatedTo           string
	CreatedAt             string
}

// ExceptionFilters contains filter options for listing exceptions.
type ExceptionFilters struct {
	Status        string
	ExceptionType string
	Priority      string
	Search        string // case-insensitive over ID, voter ID, description
	Since         string // RFC3339, inclusive lower bound on CreatedAt
	Until         string // RFC3339, inclusive upper bound on CreatedAt
	Limit         int
}
