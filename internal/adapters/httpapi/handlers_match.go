package httpapi

import (
	"net/http"
	"strconv"

	"github.com/example/vreg/internal/ports/primary"
)

// MatchHandler serves the dedup-match review endpoints.
type MatchHandler struct {
	service primary.MatchService
}

// NewMatchHandler creates a match handler.
func NewMatchHandler(service primary.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// List handles GET /matches.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.MatchFilters{
		Status:    q.Get("status"),
		MatchType: q.Get("type"),
		Priority:  q.Get("priority"),
		Search:    q.Get("q"),
		Since:     q.Get("since"),
		Until:     q.Get("until"),
		Limit:     parseLimit(q.Get("limit")),
	}

	matches, err := h.service.ListMatches(r.Context(), filters)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, matches)
}

// Get handles GET /matches/{id}.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	match, err := h.service.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, match)
}

type reviewMatchBody struct {
	Decision      string `json:"decision"`
	Justification string `json:"justification"`
}

// Review handles POST /matches/{id}/review.
func (h *MatchHandler) Review(w http.ResponseWriter, r *http.Request) {
	var body reviewMatchBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	match, err := h.service.ReviewMatch(r.Context(), primary.ReviewMatchRequest{
		MatchID:       r.PathValue("id"),
		Decision:      body.Decision,
		Justification: body.Justification,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, match)
}

type flagExceptionBody struct {
	Justification string `json:"justification"`
}

// FlagException handles POST /matches/{id}/flag-exception.
func (h *MatchHandler) FlagException(w http.ResponseWriter, r *http.Request) {
	var body flagExceptionBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	match, err := h.service.FlagException(r.Context(), primary.FlagExceptionRequest{
		MatchID:       r.PathValue("id"),
		Justification: body.Justification,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, match)
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
