package httpapi

import (
	"net/http"

	"github.com/example/vreg/internal/ports/primary"
)

// SecurityKeyHandler serves the hardware key inventory endpoints.
type SecurityKeyHandler struct {
	service primary.SecurityKeyService
}

// NewSecurityKeyHandler creates a security-key handler.
func NewSecurityKeyHandler(service primary.SecurityKeyService) *SecurityKeyHandler {
	return &SecurityKeyHandler{service: service}
}

type addKeyBody struct {
	Serial string `json:"serial"`
	Kind   string `json:"kind"`
}

// Add handles POST /keys.
func (h *SecurityKeyHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body addKeyBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, err := h.service.AddKey(r.Context(), primary.AddKeyRequest{
		Serial: body.Serial,
		Kind:   body.Kind,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, key)
}

// List handles GET /keys.
func (h *SecurityKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.SecurityKeyFilters{
		Status: q.Get("status"),
		Kind:   q.Get("kind"),
		Search: q.Get("q"),
		Limit:  parseLimit(q.Get("limit")),
	}

	keys, err := h.service.ListKeys(r.Context(), filters)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, keys)
}

// Get handles GET /keys/{id}.
func (h *SecurityKeyHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.GetKey(r.Context(), r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, key)
}

type assignKeyBody struct {
	AssignedTo string `json:"assigned_to"`
}

// Assign handles POST /keys/{id}/assign.
func (h *SecurityKeyHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var body assignKeyBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, err := h.service.AssignKey(r.Context(), primary.AssignKeyRequest{
		KeyID:      r.PathValue("id"),
		AssignedTo: body.AssignedTo,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, key)
}

// Return handles POST /keys/{id}/return.
func (h *SecurityKeyHandler) Return(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.ReturnKey(r.Context(), r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, key)
}

type keyReasonBody struct {
	Reason string `json:"reason"`
}

// Revoke handles POST /keys/{id}/revoke.
func (h *SecurityKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var body keyReasonBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, err := h.service.RevokeKey(r.Context(), r.PathValue("id"), body.Reason)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, key)
}

// MarkLost handles POST /keys/{id}/lost.
func (h *SecurityKeyHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	var body keyReasonBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, err := h.service.MarkLost(r.Context(), r.PathValue("id"), body.Reason)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, key)
}
