package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/vreg/internal/ports/primary"
)

// mockMatchService implements primary.MatchService for testing
type mockMatchService struct {
	listMatchesFn func(ctx context.Context, filters primary.MatchFilters) ([]*primary.Match, error)
	getMatchFn    func(ctx context.Context, matchID string) (*primary.Match, error)
	reviewFn      func(ctx context.Context, req primary.ReviewMatchRequest) (*primary.Match, error)

	lastReviewReq primary.ReviewMatchRequest
}

func (m *mockMatchService) GetMatch(ctx context.Context, matchID string) (*primary.Match, error) {
	if m.getMatchFn != nil {
		return m.getMatchFn(ctx, matchID)
	}
	return &primary.Match{ID: matchID, Voter1ID: "VOT-1001", Voter2ID: "VOT-2002", MatchScore: 95.0, MatchType: "fingerprint", Status: "pending_review"}, nil
}

func (m *mockMatchService) ListMatches(ctx context.Context, filters primary.MatchFilters) ([]*primary.Match, error) {
	if m.listMatchesFn != nil {
		return m.listMatchesFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockMatchService) ReviewMatch(ctx context.Context, req primary.ReviewMatchRequest) (*primary.Match, error) {
	m.lastReviewReq = req
	if m.reviewFn != nil {
		return m.reviewFn(ctx, req)
	}
	return &primary.Match{ID: req.MatchID, Status: req.Decision}, nil
}

func (m *mockMatchService) FlagException(ctx context.Context, req primary.FlagExceptionRequest) (*primary.Match, error) {
	return &primary.Match{ID: req.MatchID, Status: "exception"}, nil
}

func TestMatchAdapterListEmpty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewMatchAdapter(&mockMatchService{}, &buf)

	if err := adapter.List(context.Background(), primary.MatchFilters{}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No matches found") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestMatchAdapterListTable(t *testing.T) {
	var buf bytes.Buffer
	svc := &mockMatchService{
		listMatchesFn: func(_ context.Context, _ primary.MatchFilters) ([]*primary.Match, error) {
			return []*primary.Match{
				{ID: "DM-001", Voter1ID: "VOT-1001", Voter2ID: "VOT-2002", MatchScore: 97.5, MatchType: "fingerprint", Status: "pending_review"},
			}, nil
		},
	}
	adapter := NewMatchAdapter(svc, &buf)

	if err := adapter.List(context.Background(), primary.MatchFilters{}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"DM-001", "VOT-1001", "97.5", "pending_review"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestMatchAdapterReview(t *testing.T) {
	var buf bytes.Buffer
	svc := &mockMatchService{}
	adapter := NewMatchAdapter(svc, &buf)

	err := adapter.Review(context.Background(), "DM-001", "confirmed_match", "same person")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if svc.lastReviewReq.MatchID != "DM-001" || svc.lastReviewReq.Decision != "confirmed_match" {
		t.Errorf("unexpected request: %+v", svc.lastReviewReq)
	}
	if !strings.Contains(buf.String(), "✓ Match DM-001 reviewed") {
		t.Errorf("expected confirmation, got %q", buf.String())
	}
}

func TestMatchAdapterReviewError(t *testing.T) {
	var buf bytes.Buffer
	svc := &mockMatchService{
		reviewFn: func(_ context.Context, _ primary.ReviewMatchRequest) (*primary.Match, error) {
			return nil, errors.New("already decided")
		},
	}
	adapter := NewMatchAdapter(svc, &buf)

	if err := adapter.Review(context.Background(), "DM-001", "confirmed_match", "x"); err == nil {
		t.Error("expected error to propagate")
	}
}
