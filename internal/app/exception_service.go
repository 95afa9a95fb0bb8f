package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/vreg/internal/core/exception"
	"github.com/example/vreg/internal/core/filter"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// ExceptionServiceImpl implements the ExceptionService interface.
type ExceptionServiceImpl struct {
	excRepo  secondary.ExceptionRepository
	notifier secondary.Notifier // optional
	metrics  DecisionRecorder   // optional
}

// NewExceptionService creates a new ExceptionService with injected dependencies.
func NewExceptionService(excRepo secondary.ExceptionRepository, notifier secondary.Notifier) *ExceptionServiceImpl {
	return &ExceptionServiceImpl{
		excRepo:  excRepo,
		notifier: notifier,
	}
}

// WithMetrics attaches a decision recorder and returns the service for
// chaining.
func (s *ExceptionServiceImpl) WithMetrics(m DecisionRecorder) *ExceptionServiceImpl {
	s.metrics = m
	return s
}

// GetException retrieves an exception by ID.
func (s *ExceptionServiceImpl) GetException(ctx context.Context, exceptionID string) (*primary.Exception, error) {
	record, err := s.excRepo.GetByID(ctx, exceptionID)
	if err != nil {
		return nil, err
	}
	return s.recordToException(record), nil
}

// ListExceptions lists exceptions with optional filters.
func (s *ExceptionServiceImpl) ListExceptions(ctx context.Context, filters primary.ExceptionFilters) ([]*primary.Exception, error) {
	records, err := s.excRepo.List(ctx, secondary.ExceptionFilters{
		Status:        filters.Status,
		ExceptionType: filters.ExceptionType,
		Priority:      filters.Priority,
		Limit:         filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list exceptions: %w", err)
	}

	exceptions := make([]*primary.Exception, len(records))
	for i, r := range records {
		exceptions[i] = s.recordToException(r)
	}

	since, until, err := parseTimeRange(filters.Since, filters.Until)
	if err != nil {
		return nil, err
	}
	var preds []filter.Predicate[*primary.Exception]
	if filters.Search != "" {
		preds = append(preds, filter.TextSearch(filters.Search, func(e *primary.Exception) []string {
			return []string{e.ID, e.VoterID, e.Description}
		}))
	}
	if !since.IsZero() || !until.IsZero() {
		preds = append(preds, filter.DateRange(since, until, filter.RFC3339Field(func(e *primary.Exception) string {
			return e.CreatedAt
		})))
	}
	return filter.Apply(exceptions, preds...), nil
}

// ClaimException moves an open exception to under_review for the caller.
func (s *ExceptionServiceImpl) ClaimException(ctx context.Context, exceptionID string) (*primary.Exception, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.excRepo.GetByID(ctx, exceptionID)
	if err != nil {
		return nil, err
	}
	if g := exception.CanClaim(exception.RulingContext{ExceptionID: existing.ID, Status: existing.Status}); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrInvalidState, g.Reason)
	}

	if err := s.excRepo.Claim(ctx, exceptionID, actor); err != nil {
		return nil, err
	}

	claimed, err := s.excRepo.GetByID(ctx, exceptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claimed exception: %w", err)
	}
	return s.recordToException(claimed), nil
}

// ReviewException approves or rejects an actionable exception.
func (s *ExceptionServiceImpl) ReviewException(ctx context.Context, req primary.ReviewExceptionRequest) (*primary.Exception, error) {
	if g := exception.ValidDecision(req.Decision); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}
	if g := exception.ValidJustification(req.Justification); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	// Advisory pre-check; the store re-checks the actionable set
	// atomically inside Decide.
	existing, err := s.excRepo.GetByID(ctx, req.ExceptionID)
	if err != nil {
		return nil, err
	}
	if g := exception.CanReview(exception.RulingContext{ExceptionID: existing.ID, Status: existing.Status}); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrInvalidState, g.Reason)
	}

	if err := s.excRepo.Decide(ctx, secondary.ExceptionDecision{
		ExceptionID:   req.ExceptionID,
		NewStatus:     req.Decision,
		ReviewedBy:    actor,
		Justification: req.Justification,
	}); err != nil {
		if errors.Is(err, secondary.ErrInvalidState) && s.metrics != nil {
			s.metrics.RecordConflict("exception")
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordDecision("exception", req.Decision)
	}

	reviewed, err := s.excRepo.GetByID(ctx, req.ExceptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviewed exception: %w", err)
	}

	s.dispatchRuling(ctx, reviewed)

	return s.recordToException(reviewed), nil
}

// EscalateException hands an actionable exception to a higher authority.
// Escalated is terminal here: the record now belongs to the target role's
// queue and this service refuses further rulings on it.
func (s *ExceptionServiceImpl) EscalateException(ctx context.Context, req primary.EscalateExceptionRequest) (*primary.Exception, error) {
	if g := exception.ValidTargetRole(req.TargetRole); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}
	if g := exception.ValidJustification(req.Justification); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrValidation, g.Reason)
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.excRepo.GetByID(ctx, req.ExceptionID)
	if err != nil {
		return nil, err
	}
	if g := exception.CanEscalate(exception.RulingContext{ExceptionID: existing.ID, Status: existing.Status}); !g.Allowed {
		return nil, fmt.Errorf("%w: %s", secondary.ErrInvalidState, g.Reason)
	}

	if err := s.excRepo.Escalate(ctx, req.ExceptionID, req.TargetRole, actor, req.Justification); err != nil {
		if errors.Is(err, secondary.ErrInvalidState) && s.metrics != nil {
			s.metrics.RecordConflict("exception")
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordDecision("exception", exception.StatusEscalated)
	}

	escalated, err := s.excRepo.GetByID(ctx, req.ExceptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch escalated exception: %w", err)
	}
	return s.recordToException(escalated), nil
}

// dispatchRuling notifies the exception creator of a committed ruling.
// Failures are logged, never propagated: the ruling has already committed.
func (s *ExceptionServiceImpl) dispatchRuling(ctx context.Context, e *secondary.ExceptionRecord) {
	if s.notifier == nil || e.CreatedBy == "" {
		return
	}
	notifType := secondary.NotificationUserApproved
	if e.Status == exception.StatusRejected {
		notifType = secondary.NotificationUserRejected
	}
	err := s.notifier.Dispatch(ctx, secondary.Notification{
		Type:           notifType,
		RecipientEmail: e.CreatedBy,
		RecipientName:  e.CreatedBy,
		Data: map[string]string{
			"exception_id": e.ID,
			"voter_id":     e.VoterID,
			"decision":     e.Status,
			"reason":       e.OverrideJustification,
		},
	})
	if err != nil {
		slog.Warn("exception ruling notification failed", "exception_id", e.ID, "error", err)
	}
}

func (s *ExceptionServiceImpl) recordToException(r *secondary.ExceptionRecord) *primary.Exception {
	return &primary.Exception{
		ID:                    r.ID,
		VoterID:               r.VoterID,
		ExceptionType:         r.ExceptionType,
		ReasonCode:            r.ReasonCode,
		Description:           r.Description,
		Priority:              r.Priority,
		Status:                r.Status,
		CreatedBy:             r.CreatedBy,
		ReviewedBy:            r.ReviewedBy,
		ReviewedAt:            r.ReviewedAt,
		OverrideJustification: r.OverrideJustification,
		EscalatedTo:           r.EscalatedTo,
		CreatedAt:             r.CreatedAt,
	}
}

// Ensure ExceptionServiceImpl implements the interface
var _ primary.ExceptionService = (*ExceptionServiceImpl)(nil)
