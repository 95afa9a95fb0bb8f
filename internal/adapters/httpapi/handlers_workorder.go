package httpapi

import (
	"net/http"

	"github.com/example/vreg/internal/ports/primary"
)

// WorkOrderHandler serves the maintenance work-order endpoints.
type WorkOrderHandler struct {
	service primary.WorkOrderService
}

// NewWorkOrderHandler creates a work-order handler.
func NewWorkOrderHandler(service primary.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{service: service}
}

type createWorkOrderBody struct {
	DeviceID    string `json:"device_id"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// Create handles POST /work-orders.
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createWorkOrderBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.service.CreateWorkOrder(r.Context(), primary.CreateWorkOrderRequest{
		DeviceID:    body.DeviceID,
		Type:        body.Type,
		Priority:    body.Priority,
		Description: body.Description,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, wo)
}

// List handles GET /work-orders.
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.WorkOrderFilters{
		DeviceID: q.Get("device_id"),
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		Search:   q.Get("q"),
		Since:    q.Get("since"),
		Until:    q.Get("until"),
		Limit:    parseLimit(q.Get("limit")),
	}

	orders, err := h.service.ListWorkOrders(r.Context(), filters)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, orders)
}

// Get handles GET /work-orders/{id}.
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	wo, err := h.service.GetWorkOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, wo)
}

type updateWorkOrderStatusBody struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /work-orders/{id}/status.
func (h *WorkOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body updateWorkOrderStatusBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.service.UpdateStatus(r.Context(), primary.UpdateWorkOrderStatusRequest{
		WorkOrderID: r.PathValue("id"),
		NewStatus:   body.Status,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, wo)
}

type addNoteBody struct {
	Text string `json:"text"`
}

// AddNote handles POST /work-orders/{id}/notes.
func (h *WorkOrderHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var body addNoteBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.service.AddNote(r.Context(), primary.AddWorkOrderNoteRequest{
		WorkOrderID: r.PathValue("id"),
		Text:        body.Text,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, note)
}

// ListNotes handles GET /work-orders/{id}/notes.
func (h *WorkOrderHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListNotes(r.Context(), r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, notes)
}
