package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/vreg/internal/core/match"
	"github.com/example/vreg/internal/ctxutil"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// mockMatchRepository implements secondary.MatchRepository for testing.
// Decide mirrors the store's compare-and-swap: the write succeeds only if
// the record is still pending_review.
type mockMatchRepository struct {
	matches map[string]*secondary.MatchRecord
	excs    *mockExceptionRepository // sink for FlagException's linked record
	nextID  int
}

func newMockMatchRepository() *mockMatchRepository {
	return &mockMatchRepository{
		matches: make(map[string]*secondary.MatchRecord),
		nextID:  1,
	}
}

func (m *mockMatchRepository) Create(ctx context.Context, record *secondary.MatchRecord) error {
	m.matches[record.ID] = record
	return nil
}

func (m *mockMatchRepository) GetByID(ctx context.Context, id string) (*secondary.MatchRecord, error) {
	if r, ok := m.matches[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("match %s: %w", id, secondary.ErrNotFound)
}

func (m *mockMatchRepository) List(ctx context.Context, filters secondary.MatchFilters) ([]*secondary.MatchRecord, error) {
	var result []*secondary.MatchRecord
	for _, r := range m.matches {
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.MatchType != "" && r.MatchType != filters.MatchType {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockMatchRepository) Decide(ctx context.Context, d secondary.MatchDecision) error {
	r, ok := m.matches[d.MatchID]
	if !ok {
		return fmt.Errorf("match %s: %w", d.MatchID, secondary.ErrNotFound)
	}
	if r.Status != match.StatusPendingReview {
		return fmt.Errorf("match %s is %s: %w", d.MatchID, r.Status, secondary.ErrInvalidState)
	}
	r.Status = d.NewStatus
	r.ReviewedBy = d.ReviewedBy
	r.ReviewedAt = time.Now().UTC().Format(time.RFC3339)
	r.DecisionReason = d.Justification
	return nil
}

func (m *mockMatchRepository) FlagException(ctx context.Context, f secondary.MatchFlag) error {
	r, ok := m.matches[f.MatchID]
	if !ok {
		return fmt.Errorf("match %s: %w", f.MatchID, secondary.ErrNotFound)
	}
	if r.Status != match.StatusPendingReview {
		return fmt.Errorf("match %s is %s: %w", f.MatchID, r.Status, secondary.ErrInvalidState)
	}
	r.Status = match.StatusException
	r.ReviewedBy = f.ReviewedBy
	r.ReviewedAt = time.Now().UTC().Format(time.RFC3339)
	r.DecisionReason = f.Justification
	if m.excs != nil {
		return m.excs.Create(ctx, f.Exception)
	}
	return nil
}

func (m *mockMatchRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("DM-%03d", id), nil
}

// mockExceptionRepository is shared by match (FlagException) and exception
// service tests.
type mockExceptionRepository struct {
	exceptions map[string]*secondary.ExceptionRecord
	nextID     int
}

func newMockExceptionRepository() *mockExceptionRepository {
	return &mockExceptionRepository{
		exceptions: make(map[string]*secondary.ExceptionRecord),
		nextID:     1,
	}
}

func (m *mockExceptionRepository) Create(ctx context.Context, record *secondary.ExceptionRecord) error {
	m.exceptions[record.ID] = record
	return nil
}

func (m *mockExceptionRepository) GetByID(ctx context.Context, id string) (*secondary.ExceptionRecord, error) {
	if r, ok := m.exceptions[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("exception %s: %w", id, secondary.ErrNotFound)
}

func (m *mockExceptionRepository) List(ctx context.Context, filters secondary.ExceptionFilters) ([]*secondary.ExceptionRecord, error) {
	var result []*secondary.ExceptionRecord
	for _, r := range m.exceptions {
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.ExceptionType != "" && r.ExceptionType != filters.ExceptionType {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockExceptionRepository) Claim(ctx context.Context, id, actor string) error {
	r, ok := m.exceptions[id]
	if !ok {
		return fmt.Errorf("exception %s: %w", id, secondary.ErrNotFound)
	}
	if r.Status != "open" {
		return fmt.Errorf("exception %s is %s: %w", id, r.Status, secondary.ErrInvalidState)
	}
	r.Status = "under_review"
	r.ReviewedBy = actor
	return nil
}

func (m *mockExceptionRepository) Decide(ctx context.Context, d secondary.ExceptionDecision) error {
	r, ok := m.exceptions[d.ExceptionID]
	if !ok {
		return fmt.Errorf("exception %s: %w", d.ExceptionID, secondary.ErrNotFound)
	}
	if r.Status != "open" && r.Status != "under_review" {
		return fmt.Errorf("exception %s is %s: %w", d.ExceptionID, r.Status, secondary.ErrInvalidState)
	}
	r.Status = d.NewStatus
	r.ReviewedBy = d.ReviewedBy
	r.ReviewedAt = time.Now().UTC().Format(time.RFC3339)
	r.OverrideJustification = d.Justification
	return nil
}

func (m *mockExceptionRepository) Escalate(ctx context.Context, id, targetRole, actor, justification string) error {
	r, ok := m.exceptions[id]
	if !ok {
		return fmt.Errorf("exception %s: %w", id, secondary.ErrNotFound)
	}
	if r.Status != "open" && r.Status != "under_review" {
		return fmt.Errorf("exception %s is %s: %w", id, r.Status, secondary.ErrInvalidState)
	}
	r.Status = "escalated"
	r.EscalatedTo = targetRole
	r.OverrideJustification = justification
	return nil
}

func (m *mockExceptionRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("EXC-%03d", id), nil
}

func reviewerCtx() context.Context {
	return ctxutil.WithActor(context.Background(), "reviewer@ec.gov")
}

func seedPendingMatch(repo *mockMatchRepository, id string, score float64) {
	repo.matches[id] = &secondary.MatchRecord{
		ID:         id,
		Voter1ID:   "VTR-1001",
		Voter2ID:   "VTR-2002",
		MatchScore: score,
		MatchType:  match.TypeFingerprint,
		Status:     match.StatusPendingReview,
		Priority:   "high",
		CreatedAt:  "2026-08-01T09:00:00Z",
	}
}

func TestReviewMatchConfirms(t *testing.T) {
	repo := newMockMatchRepository()
	seedPendingMatch(repo, "DM-001", 92)
	svc := NewMatchService(repo, newMockExceptionRepository(), nil)

	got, err := svc.ReviewMatch(reviewerCtx(), primary.ReviewMatchRequest{
		MatchID:       "DM-001",
		Decision:      match.DecisionConfirmedMatch,
		Justification: "Matched on fingerprint minutiae",
	})
	if err != nil {
		t.Fatalf("ReviewMatch failed: %v", err)
	}
	if got.Status != match.StatusConfirmedMatch {
		t.Errorf("Status = %s, want confirmed_match", got.Status)
	}
	if got.DecisionReason != "Matched on fingerprint minutiae" {
		t.Errorf("DecisionReason = %q", got.DecisionReason)
	}
	if got.ReviewedBy != "reviewer@ec.gov" {
		t.Errorf("ReviewedBy = %q", got.ReviewedBy)
	}
	if got.ReviewedAt == "" {
		t.Error("ReviewedAt not stamped")
	}
}

func TestReviewMatchSecondDecisionRejected(t *testing.T) {
	repo := newMockMatchRepository()
	seedPendingMatch(repo, "DM-001", 92)
	svc := NewMatchService(repo, newMockExceptionRepository(), nil)

	if _, err := svc.ReviewMatch(reviewerCtx(), primary.ReviewMatchRequest{
		MatchID:       "DM-001",
		Decision:      match.DecisionConfirmedMatch,
		Justification: "Matched on fingerprint minutiae",
	}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	_, err := svc.ReviewMatch(reviewerCtx(), primary.ReviewMatchRequest{
		MatchID:       "DM-001",
		Decision:      match.DecisionFalsePositive,
		Justification: "changed mind",
	})
	if !errors.Is(err, secondary.ErrInvalidState) {
		t.Fatalf("second review error = %v, want ErrInvalidState", err)
	}

	// The record must be unchanged by the failed attempt.
	record, _ := repo.GetByID(context.Background(), "DM-001")
	if record.Status != match.StatusConfirmedMatch {
		t.Errorf("Status = %s after failed second review, want confirmed_match", record.Status)
	}
	if record.DecisionReason != "Matched on fingerprint minutiae" {
		t.Errorf("DecisionReason overwritten: %q", record.DecisionReason)
	}
}

func TestReviewMatchValidation(t *testing.T) {
	repo := newMockMatchRepository()
	seedPendingMatch(repo, "DM-001", 92)
	svc := NewMatchService(repo, newMockExceptionRepository(), nil)

	tests := []struct {
		name string
		req  primary.ReviewMatchRequest
	}{
		{
			name: "empty justification",
			req:  primary.ReviewMatchRequest{MatchID: "DM-001", Decision: match.DecisionConfirmedMatch, Justification: ""},
		},
		{
			name: "whitespace justification",
			req:  primary.ReviewMatchRequest{MatchID: "DM-001", Decision: match.DecisionFalsePositive, Justification: "  "},
		},
		{
			name: "invalid decision",
			req:  primary.ReviewMatchRequest{MatchID: "DM-001", Decision: "exception", Justification: "looks off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReviewMatch(reviewerCtx(), tt.req)
			if !errors.Is(err, secondary.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	// Nothing above may have touched the record.
	record, _ := repo.GetByID(context.Background(), "DM-001")
	if record.Status != match.StatusPendingReview {
		t.Errorf("Status = %s after rejected requests, want pending_review", record.Status)
	}
}

func TestReviewMatchNotFound(t *testing.T) {
	svc := NewMatchService(newMockMatchRepository(), newMockExceptionRepository(), nil)

	_, err := svc.ReviewMatch(reviewerCtx(), primary.ReviewMatchRequest{
		MatchID:       "DM-999",
		Decision:      match.DecisionConfirmedMatch,
		Justification: "x",
	})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestReviewMatchRequiresActor(t *testing.T) {
	repo := newMockMatchRepository()
	seedPendingMatch(repo, "DM-001", 92)
	svc := NewMatchService(repo, newMockExceptionRepository(), nil)

	_, err := svc.ReviewMatch(context.Background(), primary.ReviewMatchRequest{
		MatchID:       "DM-001",
		Decision:      match.DecisionConfirmedMatch,
		Justification: "x",
	})
	if !errors.Is(err, secondary.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestListMatchesDateRange(t *testing.T) {
	repo := newMockMatchRepository()
	seedPendingMatch(repo, "DM-001", 92)
	repo.matches["DM-001"].CreatedAt = "2026-08-01T09:00:00Z"
	seedPendingMatch(repo, "DM-002", 88)
	repo.matches["DM-002"].CreatedAt = "2026-08-20T09:00:00Z"
	svc := NewMatchService(repo, newMockExceptionRepository(), nil)

	got, err := svc.ListMatches(context.Background(), primary.MatchFilters{
		Since: "2026-08-10T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "DM-002" {
		t.Fatalf("matches since 2026-08-10 = %+v, want only DM-002", got)
	}

	got, err = svc.ListMatches(context.Background(), primary.MatchFilters{
		Until: "2026-08-10T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "DM-001" {
		t.Fatalf("matches until 2026-08-10 = %+v, want only DM-001", got)
	}

	if _, err := svc.ListMatches(context.Background(), primary.MatchFilters{Since: "yesterday"}); !errors.Is(err, secondary.ErrValidation) {
		t.Errorf("malformed since error = %v, want ErrValidation", err)
	}
}

type recordingMetrics struct {
	decisions []string
	conflicts int
}

func (r *recordingMetrics) RecordDecision(entity, outcome string) {
	r.decisions = append(r.decisions, entity+"/"+outcome)
}

func (r *recordingMetrics) RecordConflict(entity string) {
	r.conflicts++
}

func TestReviewMatchCountsDecision(t *testing.T) {
	repo := newMockMatchRepository()
	seedPendingMatch(repo, "DM-001", 92)
	rec := &recordingMetrics{}
	svc := NewMatchService(repo, newMockExceptionRepository(), nil).WithMetrics(rec)

	if _, err := svc.ReviewMatch(reviewerCtx(), primary.ReviewMatchRequest{
		MatchID:       "DM-001",
		Decision:      match.DecisionFalsePositive,
		Justification: "different people, similar prints",
	}); err != nil {
		t.Fatalf("ReviewMatch failed: %v", err)
	}

	if len(rec.decisions) != 1 || rec.decisions[0] != "match/false_positive" {
		t.Errorf("recorded decisions = %v, want [match/false_positive]", rec.decisions)
	}
	if rec.conflicts != 0 {
		t.Errorf("conflicts = %d, want 0", rec.conflicts)
	}
}

func TestFlagExceptionOpensLinkedException(t *testing.T) {
	repo := newMockMatchRepository()
	excRepo := newMockExceptionRepository()
	repo.excs = excRepo
	seedPendingMatch(repo, "DM-001", 71)
	svc := NewMatchService(repo, excRepo, nil)

	got, err := svc.FlagException(reviewerCtx(), primary.FlagExceptionRequest{
		MatchID:       "DM-001",
		Justification: "conflicting demographic data, needs manual ruling",
	})
	if err != nil {
		t.Fatalf("FlagException failed: %v", err)
	}
	if got.Status != match.StatusException {
		t.Errorf("Status = %s, want exception", got.Status)
	}

	excs, _ := excRepo.List(context.Background(), secondary.ExceptionFilters{})
	if len(excs) != 1 {
		t.Fatalf("linked exceptions = %d, want 1", len(excs))
	}
	if excs[0].ExceptionType != "data_mismatch" {
		t.Errorf("ExceptionType = %s, want data_mismatch", excs[0].ExceptionType)
	}
	if excs[0].Status != "open" {
		t.Errorf("exception Status = %s, want open", excs[0].Status)
	}
}
