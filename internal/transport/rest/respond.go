// Package rest implements the HTTP JSON API.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/tenxcards/flashcards-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeValidationError renders a 400 with the per-field error list.
func writeValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Invalid request body",
		"errors":  verr.Errors,
	})
}
