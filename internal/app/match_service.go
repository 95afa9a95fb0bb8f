// Package app implements the primary ports. Services validate with the pure
// core guards, then delegate the authoritative state change to the
// repositories, which apply it as a single conditional update.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/vreg/internal/core/exception"
	"github.com/example/vreg/internal/core/filter"
	"github.com/example/vreg/internal/core/match"
	"github.com/example/vreg/internal/ctxutil"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// MatchServiceImpl implements the MatchService interface.
type MatchServiceImpl struct {
	matchRepo secondary.MatchRepository
	excRepo   secondary.ExceptionRepository
	notifier  secondary.Notifier // optional
	metrics   DecisionRecorder   // optional
}

// NewMatchService creates a new MatchService with injected dependencies.
func NewMatchService(matchRepo secondary.MatchRepository, excRepo secondary.ExceptionRepository, notifier secondary.Notifier) *MatchServiceImpl {
	return &MatchServiceImpl{
		matchRepo: matchRepo,
		excRepo:   excRepo,
		notifier:  notifier,
	}
}

// WithMetrics attaches a decision recorder and returns the service for
// chaining.
func (s *MatchServiceImpl) WithMetrics(m DecisionRecorder) *MatchServiceImpl {
	s.metrics = m
	return s
}

// GetMatch retrieves a match by ID.
func (s *MatchServiceImpl) GetMatch(ctx context.Context, matchID string) (*primary.Match, error) {
	record, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return s.recordToMatch(record), nil
}

// ListMatches lists matches with optional filters.
func (s *MatchServiceImpl) ListMatches(ctx context.Context, filters primary.MatchFilters) ([]*primary.Match, error) {
	records, err := s.matchRepo.List(ctx, secondary.MatchFilters{
		Status:    filters.Status,
		MatchType: filters.MatchType,
		Priority:  filters.Priority,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches := make([]*primary.Match, len(records))
	for i, r := range records {
		matches[i] = s.recordToMatch(r)
	}

	since, until, err := parseTimeRange(filters.Since, filters.Until)
	if err != nil {
		return nil, err
	}
	var preds []filter.Predicate[*primary.Match]
	if filters.Search != "" {
		preds = append(preds, filter.TextSearch(filters.Search, func(m *primary.Match) []string {
			return []string{m.ID, m.Voter1ID, m.Voter2ID}
		}))
	}
	if !since.IsZero() || !until.IsZero() {
		preds = append(preds, filter.DateRange(since, until, filter.RFC3339Field(func(m *primary.Match) string {
			return m.CreatedAt
		})))
	}
	return filter.Apply(matches, preds...), nil
}

// ReviewMatch applies a reviewer decision to a pending match.
func (s *MatchServiceImpl) ReviewMatch(ctx context.Context, req primary.ReviewMatchRequest) (*primary.Match, error) {
	if g := match.ValidDecision(req.Decision); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}
	if g := match.ValidJustification(req.Justification); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	// Advisory pre-check for a precise error message. The store re-checks
	// the pending_review precondition atomically inside Decide.
	existing, err := s.matchRepo.GetByID(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	if g := match.CanReview(match.ReviewContext{MatchID: existing.ID, Status: existing.Status}); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrInvalidState, g.Reason)
	}

	if err := s.matchRepo.Decide(ctx, secondary.MatchDecision{
		MatchID:       req.MatchID,
		NewStatus:     req.Decision,
		ReviewedBy:    actor,
		Justification: req.Justification,
	}); err != nil {
		if errors.Is(err, secondary.ErrInvalidState) && s.metrics != nil {
			s.metrics.RecordConflict("match")
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordDecision("match", req.Decision)
	}

	reviewed, err := s.matchRepo.GetByID(ctx, req.MatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviewed match: %w", err)
	}

	s.dispatch(ctx, reviewed, req.Decision)

	return s.recordToMatch(reviewed), nil
}

// FlagException moves a pending match to the exception status and opens a
// linked capture exception of type data_mismatch for manual ruling.
func (s *MatchServiceImpl) FlagException(ctx context.Context, req primary.FlagExceptionRequest) (*primary.Match, error) {
	if g := match.ValidJustification(req.Justification); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.matchRepo.GetByID(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	if g := match.CanReview(match.ReviewContext{MatchID: existing.ID, Status: existing.Status}); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrInvalidState, g.Reason)
	}

	excID, err := s.excRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate exception ID: %w", err)
	}

	// Single transaction: the match flag and the linked exception commit
	// together or not at all.
	if err := s.matchRepo.FlagException(ctx, secondary.MatchFlag{
		MatchID:       req.MatchID,
		ReviewedBy:    actor,
		Justification: req.Justification,
		Exception: &secondary.ExceptionRecord{
			ID:            excID,
			VoterID:       existing.Voter1ID,
			ExceptionType: exception.TypeDataMismatch,
			ReasonCode:    "dedup_review",
			Description:   fmt.Sprintf("flagged from dedup match %s: %s", existing.ID, req.Justification),
			Priority:      existing.Priority,
			Status:        exception.StatusOpen,
			CreatedBy:     actor,
		},
	}); err != nil {
		if errors.Is(err, secondary.ErrInvalidState) && s.metrics != nil {
			s.metrics.RecordConflict("match")
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordDecision("match", match.StatusException)
	}

	flagged, err := s.matchRepo.GetByID(ctx, req.MatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flagged match: %w", err)
	}
	return s.recordToMatch(flagged), nil
}

// dispatch notifies on a committed decision. Failures are logged, never
// propagated: the decision has already committed.
func (s *MatchServiceImpl) dispatch(ctx context.Context, m *secondary.MatchRecord, decision string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Dispatch(ctx, secondary.Notification{
		Type:           secondary.NotificationUserApproved,
		RecipientEmail: m.ReviewedBy,
		RecipientName:  m.ReviewedBy,
		Data: map[string]string{
			"match_id": m.ID,
			"decision": decision,
			"reason":   m.DecisionReason,
		},
	})
	if err != nil {
		slog.Warn("match decision notification failed", "match_id", m.ID, "error", err)
	}
}

func (s *MatchServiceImpl) recordToMatch(r *secondary.MatchRecord) *primary.Match {
	return &primary.Match{
		ID:               r.ID,
		Voter1ID:         r.Voter1ID,
		Voter2ID:         r.Voter2ID,
		MatchScore:       r.MatchScore,
		FingerprintScore: r.FingerprintScore,
		FacialScore:      r.FacialScore,
		IrisScore:        r.IrisScore,
		MatchType:        r.MatchType,
		Status:           r.Status,
		Priority:         r.Priority,
		ReviewedBy:       r.ReviewedBy,
		ReviewedAt:       r.ReviewedAt,
		DecisionReason:   r.DecisionReason,
		CreatedAt:        r.CreatedAt,
	}
}

// requireActor extracts the acting identity from context. Every mutating
// operation stamps who did it; an anonymous write is a validation failure.
func requireActor(ctx context.Context) (string, error) {
	actor := ctxutil.ActorFromContext(ctx)
	if actor == "" {
		return "", fmt.Errorf("%w: actor identity required", secondary.ErrValidation)
	}
	return actor, nil
}

// Ensure MatchServiceImpl implements the interface
var _ primary.MatchService = (*MatchServiceImpl)(nil)
