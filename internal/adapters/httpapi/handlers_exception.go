package httpapi

import (
	"net/http"

	"github.com/example/vreg/internal/ports/primary"
)

// ExceptionHandler serves the exception review endpoints.
type ExceptionHandler struct {
	service primary.ExceptionService
}

// NewExceptionHandler creates an exception handler.
func NewExceptionHandler(service primary.ExceptionService) *ExceptionHandler {
	return &ExceptionHandler{service: service}
}

// List handles GET /exceptions.
func (h *ExceptionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.ExceptionFilters{
		Status:        q.Get("status"),
		ExceptionType: q.Get("type"),
		Priority:      q.Get("priority"),
		Search:        q.Get("q"),
		Since:         q.Get("since"),
		Until:         q.Get("until"),
		Limit:         parseLimit(q.Get("limit")),
	}

	exceptions, err := h.service.ListExceptions(r.Context(), filters)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, exceptions)
}

// Get handles GET /exceptions/{id}.
func (h *ExceptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	exc, err := h.service.GetException(r.Context(), r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, exc)
}

// Claim handles POST /exceptions/{id}/claim.
func (h *ExceptionHandler) Claim(w http.ResponseWriter, r *http.Request) {
	exc, err := h.service.ClaimException(r.Context(), r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, exc)
}

type reviewExceptionBody struct {
	Decision      string `json:"decision"`
	Justification string `json:"justification"`
}

// Review handles POST /exceptions/{id}/review.
func (h *ExceptionHandler) Review(w http.ResponseWriter, r *http.Request) {
	var body reviewExceptionBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exc, err := h.service.ReviewException(r.Context(), primary.ReviewExceptionRequest{
		ExceptionID:   r.PathValue("id"),
		Decision:      body.Decision,
		Justification: body.Justification,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, exc)
}

type escalateExceptionBody struct {
	TargetRole    string `json:"target_role"`
	Justification string `json:"justification"`
}

// Escalate handles POST /exceptions/{id}/escalate.
func (h *ExceptionHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	var body escalateExceptionBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exc, err := h.service.EscalateException(r.Context(), primary.EscalateExceptionRequest{
		ExceptionID:   r.PathValue("id"),
		TargetRole:    body.TargetRole,
		Justification: body.Justification,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, exc)
}
