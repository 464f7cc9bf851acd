package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/parley-chat/parley/internal/errs"
)

// errorResponse is the body for failed requests
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError translates the service error taxonomy into an HTTP status:
// not-found 404, forbidden 403, validation 400, anything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errs.IsForbidden(err):
		status = http.StatusForbidden
	case errs.IsValidation(err):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Success: false, Error: err.Error()})
}
