package httpapi

import (
	"net/http"

	"github.com/example/vreg/internal/ports/primary"
)

// AuditHandler serves the read-only audit trail endpoints.
type AuditHandler struct {
	service primary.AuditService
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(service primary.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /audit.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.AuditFilters{
		Actor:      q.Get("actor"),
		EntityType: q.Get("entity_type"),
		Action:     q.Get("action"),
		Since:      q.Get("since"),
		Until:      q.Get("until"),
		Limit:      parseLimit(q.Get("limit")),
	}

	entries, err := h.service.ListEntries(r.Context(), filters)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, entries)
}

// EntityHistory handles GET /audit/{entityType}/{entityID}.
func (h *AuditHandler) EntityHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.EntityHistory(r.Context(), r.PathValue("entityType"), r.PathValue("entityID"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, entries)
}
