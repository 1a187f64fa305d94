package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// handleListUnmapped GET /api/admin/unmapped
func (s *Server) handleListUnmapped(w http.ResponseWriter, r *http.Request) {
	unmapped, err := s.store.FetchUnmappedMoods(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch unmapped moods")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, unmapped)
}

// handleMapUnmapped POST /api/admin/unmapped/{id}/map
func (s *Server) handleMapUnmapped(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	if err := s.store.MapUnmappedMood(r.Context(), id, strings.TrimSpace(req.Category)); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteUnmapped DELETE /api/admin/unmapped/{id}
func (s *Server) handleDeleteUnmapped(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUnmappedMood(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteMood DELETE /api/admin/moods/{id}
//
// The dashboard refetches after a successful delete; delete is idempotent
// on retry.
func (s *Server) handleDeleteMood(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMoodEvent(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteUser DELETE /api/admin/users/{id}
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUserAccount(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
