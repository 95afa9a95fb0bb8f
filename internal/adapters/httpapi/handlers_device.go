package httpapi

import (
	"net/http"

	"github.com/example/vreg/internal/ports/primary"
)

// DeviceHandler serves the device fleet endpoints.
type DeviceHandler struct {
	service primary.DeviceService
}

// NewDeviceHandler creates a device handler.
func NewDeviceHandler(service primary.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

type registerDeviceBody struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	IPAddress string `json:"ip_address"`
}

// Register handles POST /devices.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerDeviceBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dev, err := h.service.RegisterDevice(r.Context(), primary.RegisterDeviceRequest{
		Name:      body.Name,
		Location:  body.Location,
		IPAddress: body.IPAddress,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, dev)
}

// List handles GET /devices.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.DeviceFilters{
		Status:   q.Get("status"),
		Location: q.Get("location"),
		Search:   q.Get("q"),
		Limit:    parseLimit(q.Get("limit")),
	}

	devices, err := h.service.ListDevices(r.Context(), filters)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, devices)
}

// Get handles GET /devices/{id}.
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	dev, err := h.service.GetDevice(r.Context(), r.PathValue("id"))
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, dev)
}

type telemetryBody struct {
	BatteryPercent int  `json:"battery_percent"`
	StoragePercent int  `json:"storage_percent"`
	GPSEnabled     bool `json:"gps_enabled"`
}

// Telemetry handles POST /devices/{id}/telemetry.
func (h *DeviceHandler) Telemetry(w http.ResponseWriter, r *http.Request) {
	var body telemetryBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.service.UpdateTelemetry(r.Context(), primary.DeviceTelemetryRequest{
		DeviceID:       r.PathValue("id"),
		BatteryPercent: body.BatteryPercent,
		StoragePercent: body.StoragePercent,
		GPSEnabled:     body.GPSEnabled,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setDeviceStatusBody struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// SetStatus handles POST /devices/{id}/status.
func (h *DeviceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var body setDeviceStatusBody
	if err := ParseJSONBody(r, &body); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dev, err := h.service.SetStatus(r.Context(), primary.SetDeviceStatusRequest{
		DeviceID: r.PathValue("id"),
		Status:   body.Status,
		Reason:   body.Reason,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, dev)
}
