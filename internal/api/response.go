package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fileflow/internal/filetree"
)

type ErrorResponse struct {
	Error string `json:"error" example:"node not found"`
}

type MessageResponse struct {
	Message string `json:"message" example:"deleted"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, filetree.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, filetree.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, filetree.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeTreeError maps a filetree error to a status. Server-side failures are
// logged and hidden from the client.
func (s *Server) writeTreeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed", "action", action, "path", r.URL.Path, "error", err)
		writeError(w, status, "failed to "+action)
		return
	}
	writeError(w, status, err.Error())
}
