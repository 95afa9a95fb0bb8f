// Package httpapi exposes the services over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/vreg/internal/ports/secondary"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSONResponse writes a JSON response.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, errorBody{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// ServiceError maps a service error onto the right status code and writes it.
func ServiceError(w http.ResponseWriter, err error) {
	ErrorResponse(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, secondary.ErrInvalidState),
		errors.Is(err, secondary.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, secondary.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, secondary.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ParseJSONBody parses the request body into the given struct.
func ParseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
