package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/vreg/internal/ctxutil"
	"github.com/example/vreg/internal/ports/primary"
	"github.com/example/vreg/internal/ports/secondary"
)

// stubMatchService records the last request and returns canned results.
type stubMatchService struct {
	match       *primary.Match
	err         error
	lastActor   string
	lastFilters primary.MatchFilters
}

func (s *stubMatchService) GetMatch(_ context.Context, matchID string) (*primary.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.match == nil || s.match.ID != matchID {
		return nil, fmt.Errorf("match %s: %w", matchID, secondary.ErrNotFound)
	}
	return s.match, nil
}

func (s *stubMatchService) ListMatches(_ context.Context, filters primary.MatchFilters) ([]*primary.Match, error) {
	s.lastFilters = filters
	if s.err != nil {
		return nil, s.err
	}
	if s.match == nil {
		return nil, nil
	}
	return []*primary.Match{s.match}, nil
}

func (s *stubMatchService) ReviewMatch(ctx context.Context, req primary.ReviewMatchRequest) (*primary.Match, error) {
	s.lastActor = ctxutil.ActorFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	out := *s.match
	out.Status = req.Decision
	out.ReviewedBy = s.lastActor
	return &out, nil
}

func (s *stubMatchService) FlagException(ctx context.Context, _ primary.FlagExceptionRequest) (*primary.Match, error) {
	s.lastActor = ctxutil.ActorFromContext(ctx)
	return s.match, s.err
}

func newTestRouter(svc primary.MatchService) *http.ServeMux {
	return NewRouter(Services{Matches: svc}, nil)
}

func TestGetMatchEndpoint(t *testing.T) {
	svc := &stubMatchService{match: &primary.Match{ID: "DM-001", Status: "pending_review"}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/matches/DM-001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got primary.Match
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != "DM-001" {
		t.Errorf("expected DM-001, got %s", got.ID)
	}
}

func TestListMatchesEndpointDateRange(t *testing.T) {
	svc := &stubMatchService{match: &primary.Match{ID: "DM-001"}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/matches?since=2026-08-01T00:00:00Z&until=2026-08-31T00:00:00Z&status=pending_review", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastFilters.Since != "2026-08-01T00:00:00Z" {
		t.Errorf("Since = %q, want the since query param", svc.lastFilters.Since)
	}
	if svc.lastFilters.Until != "2026-08-31T00:00:00Z" {
		t.Errorf("Until = %q, want the until query param", svc.lastFilters.Until)
	}
	if svc.lastFilters.Status != "pending_review" {
		t.Errorf("Status = %q, want pending_review", svc.lastFilters.Status)
	}
}

func TestGetMatchEndpointNotFound(t *testing.T) {
	router := newTestRouter(&stubMatchService{})

	req := httptest.NewRequest(http.MethodGet, "/matches/DM-404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestReviewMatchEndpointCarriesActor(t *testing.T) {
	svc := &stubMatchService{match: &primary.Match{ID: "DM-001", Status: "pending_review"}}
	router := newTestRouter(svc)

	body := strings.NewReader(`{"decision":"confirmed_match","justification":"same person"}`)
	req := httptest.NewRequest(http.MethodPost, "/matches/DM-001/review", body)
	req.Header.Set(ActorHeader, "reviewer@ec.gov")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastActor != "reviewer@ec.gov" {
		t.Errorf("expected actor from header, got %q", svc.lastActor)
	}
}

func TestReviewMatchEndpointConflict(t *testing.T) {
	svc := &stubMatchService{
		match: &primary.Match{ID: "DM-001"},
		err:   fmt.Errorf("DM-001 is confirmed_match: %w", secondary.ErrInvalidState),
	}
	router := newTestRouter(svc)

	body := strings.NewReader(`{"decision":"false_positive","justification":"disagree"}`)
	req := httptest.NewRequest(http.MethodPost, "/matches/DM-001/review", body)
	req.Header.Set(ActorHeader, "reviewer@ec.gov")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestReviewMatchEndpointBadBody(t *testing.T) {
	svc := &stubMatchService{match: &primary.Match{ID: "DM-001"}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/matches/DM-001/review", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("x: %w", secondary.ErrNotFound), http.StatusNotFound},
		{"invalid state", fmt.Errorf("x: %w", secondary.ErrInvalidState), http.StatusConflict},
		{"invalid transition", fmt.Errorf("x: %w", secondary.ErrInvalidTransition), http.StatusConflict},
		{"validation", fmt.Errorf("x: %w", secondary.ErrValidation), http.StatusBadRequest},
		{"unavailable", fmt.Errorf("x: %w", secondary.ErrUnavailable), http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubMatchService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
