// Package handlers implements the JSON API handlers for the CeylonRover
// server: auth, content CRUD, moderation, assignments, and engagement.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/moderation"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondWorkflowError maps moderation errors onto HTTP statuses. Anything
// outside the taxonomy is a 500 with the detail kept out of the response.
func respondWorkflowError(w http.ResponseWriter, err error) {
	var vErr *moderation.ValidationError
	switch {
	case errors.Is(err, moderation.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, moderation.ErrUnauthorized):
		respondError(w, http.StatusForbidden, "not allowed to act on this content")
	case errors.Is(err, moderation.ErrInvalidStateTransition):
		respondError(w, http.StatusConflict, "content is not pending review")
	case errors.Is(err, moderation.ErrInvalidModerator):
		respondError(w, http.StatusUnprocessableEntity, "assignment target is not a moderator")
	case errors.As(err, &vErr):
		respondError(w, http.StatusUnprocessableEntity, vErr.Message)
	default:
		slog.Error("workflow operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
