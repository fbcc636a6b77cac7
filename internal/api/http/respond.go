package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dstu-guide/guide-api/internal/apperr"
)

// FieldError mirrors the entries of a 400 validation response.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFieldErrors(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

// writeError maps the apperr kinds to status codes. Server-side failures keep
// the cause in "details" and hand it to the request log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrInvalidReference):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperr.ErrAlreadyCompleted):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, apperr.ErrInvalid), errors.Is(err, apperr.ErrConflict):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrUnauthorized):
		code, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperr.ErrUnavailable):
		code, msg = http.StatusServiceUnavailable, "service temporarily unavailable"
	}
	if code < 500 {
		writeJSON(w, code, map[string]string{"error": msg})
		return
	}
	noteError(r, err)
	writeJSON(w, code, map[string]string{"error": msg, "details": err.Error()})
}
