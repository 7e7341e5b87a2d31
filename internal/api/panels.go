package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inspectra/inspectra-core/internal/panel"
)

// handleListPanels returns all panels.
func (s *Server) handleListPanels(w http.ResponseWriter, r *http.Request) {
	panels, err := s.panels.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if panels == nil {
		panels = []panel.Panel{}
	}
	writeJSON(w, http.StatusOK, panels)
}

// handleCreatePanel registers a new panel.
func (s *Server) handleCreatePanel(w http.ResponseWriter, r *http.Request) {
	var input panel.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	p, err := s.panels.Create(r.Context(), input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.publishEvent(topics.PanelEvent("created", p.ID), p)
	writeJSON(w, http.StatusCreated, p)
}

// handleGetPanel returns one panel by ID.
func (s *Server) handleGetPanel(w http.ResponseWriter, r *http.Request) {
	p, err := s.panels.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdatePanel modifies a panel's name, location and notes.
// The addressing mode is immutable and rejected if changed.
func (s *Server) handleUpdatePanel(w http.ResponseWriter, r *http.Request) {
	var input panel.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	p, err := s.panels.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleDeletePanel removes a panel. Its devices, inspections and
// results are removed by cascade in the same statement's transaction.
func (s *Server) handleDeletePanel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.panels.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.publishEvent(topics.PanelEvent("deleted", id), map[string]string{"id": id})
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
