// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phuslu/log"

	"geofeed/internal/domain/discovery"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string) {
	response := map[string]string{"error": message}
	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// respondWithServiceError maps a service failure to a status and logs it
func respondWithServiceError(w http.ResponseWriter, logger *log.Logger, message string, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, discovery.ErrUpstreamFetch) {
		code = http.StatusBadGateway
	}

	logger.Error().Err(err).Int("status", code).Msg(message)
	respondWithError(w, code, message)
}
