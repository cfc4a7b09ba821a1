// Package httputil centralizes JSON response and error translation so every
// handler produces the same envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates sentinel errors to HTTP statuses. Internal failures
// omit the description so storage details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
	case errors.Is(err, sentinel.ErrInvalidInput):
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", ErrorDescription: err.Error()})
	case errors.Is(err, sentinel.ErrConflict):
		WriteJSON(w, http.StatusConflict, errorBody{Error: "conflict"})
	case errors.Is(err, sentinel.ErrCircuitOpen), errors.Is(err, sentinel.ErrUnavailable):
		WriteJSON(w, http.StatusServiceUnavailable, errorBody{Error: "unavailable"})
	default:
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error"})
	}
}

// Decode reads the request body as JSON into T, reporting a bad_request
// envelope on malformed input.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", ErrorDescription: "malformed JSON body"})
		return req, false
	}
	return req, true
}
