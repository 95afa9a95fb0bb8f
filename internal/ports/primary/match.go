// Package primary defines the primary ports (driving adapters) of the
// application: the service interfaces the CLI and HTTP surfaces call.
package primary

import "context"

// MatchService defines the primary port for dedup-match review.
type MatchService interface {
	// GetMatch retrieves a match by ID.
	GetMatch(ctx context.Context, matchID string) (*Match, error)

	// ListMatches lists matches with optional filters.
	ListMatches(ctx context.Context, filters MatchFilters) ([]*Match, error)

	// ReviewMatch applies a reviewer decision to a pending match.
	// The decision must be confirmed_match or false_positive and the
	// justification must be non-empty.
	ReviewMatch(ctx context.Context, req ReviewMatchRequest) (*Match, error)

	// FlagException moves a pending match to the exception status and
	// opens a linked capture exception for manual ruling.
	FlagException(ctx context.Context, req FlagExceptionRequest) (*Match, error)
}

// ReviewMatchRequest contains parameters for reviewing a match.
type ReviewMatchRequest struct {
	MatchID       string
	Decision      string // confirmed_match, false_positive
	Justification string
}

// FlagExceptionRequest contains parameters for flagging a match as an
// exception case.
type FlagExceptionRequest struct {
	MatchID       string
	Justification string
}

// Match represents a dedup match at the port boundary.
type Match struct {
	ID               string
	Voter1ID         string
	Voter2ID         string
	MatchScore       float64
	FingerprintScore float64
	FacialScore      float64
	IrisScore        float64
	MatchType        string
	Status           string
	Priority         string
	ReviewedBy       string
	ReviewedAt       string
	DecisionReason   string
	CreatedAt        string
}

// MatchFilters contains filter options for listing matches.
type MatchFilters struct {
	Status    string
	MatchType string
	Priority  string
	Search    string // case-insensitive over ID and voter IDs
	Since     string // RFC3339, inclusive lower bound on CreatedAt
	Until     string // RFC3339, inclusive upper bound on CreatedAt
	Limit     int
}
