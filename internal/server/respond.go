package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/vidstash/internal/shared"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to an HTTP status and the error body shape.
//
// Validation failures map to 400, missing entities to 404, everything else
// (provider failures included) to 500.
func writeError(w http.ResponseWriter, err error, details ...string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrChannelNotFound),
		errors.Is(err, shared.ErrPlaylistNotFound),
		errors.Is(err, shared.ErrVideoNotFound):
		status = http.StatusNotFound
	}

	writeJSON(w, status, ErrorResponse{Message: err.Error(), Errors: details})
}
