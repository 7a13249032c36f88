package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	store := s.container.CatalogStore
	status := "healthy"
	if store.Len() == 0 {
		status = "degraded"
	}

	response := map[string]interface{}{
		"status":         status,
		"version":        "1.0.0",
		"service":        "boxengine",
		"catalog_boxes":  store.Len(),
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
	}
	if loadedAt := store.LoadedAt(); !loadedAt.IsZero() {
		response["catalog_loaded_at"] = loadedAt.UTC().Format(time.RFC3339)
	}

	s.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
