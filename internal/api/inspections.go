package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inspectra/inspectra-core/internal/inspection"
)

// startInspectionRequest is the body for starting an inspection.
type startInspectionRequest struct {
	InspectorName string `json:"inspector_name"`
	Notes         string `json:"notes"`
}

// recordResultRequest is the body for recording one device's result.
type recordResultRequest struct {
	Status  inspection.ResultStatus `json:"status"`
	Comment string                  `json:"comment"`
}

// recordBulkRequest is the body for recording a batch of results.
type recordBulkRequest struct {
	Results []inspection.ResultEntry `json:"results"`
}

// finalizeRequest is the body for finalising an inspection.
type finalizeRequest struct {
	OverallStatus inspection.Status `json:"overall_status"`
	Notes         string            `json:"notes"`
}

// handleListInspections returns a panel's inspections, most recent first.
func (s *Server) handleListInspections(w http.ResponseWriter, r *http.Request) {
	panelID := chi.URLParam(r, "id")

	if _, err := s.panels.GetByID(r.Context(), panelID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	inspections, err := s.inspections.ListByPanel(r.Context(), panelID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if inspections == nil {
		inspections = []inspection.Inspection{}
	}
	writeJSON(w, http.StatusOK, inspections)
}

// handleStartInspection creates an inspection and seeds one NOT_TESTED
// result per device currently on the panel.
func (s *Server) handleStartInspection(w http.ResponseWriter, r *http.Request) {
	panelID := chi.URLParam(r, "id")

	var req startInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	insp, err := s.inspections.Start(r.Context(), panelID, req.InspectorName, req.Notes)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	count, err := s.devices.CountByPanel(r.Context(), panelID)
	if err != nil {
		count = 0
	}

	s.publishEvent(topics.InspectionEvent("started", insp.ID), insp)
	if s.influx != nil {
		s.influx.WriteInspectionStarted(panelID, insp.ID, count)
	}

	writeJSON(w, http.StatusCreated, insp)
}

// handleGetInspection returns one inspection by ID.
func (s *Server) handleGetInspection(w http.ResponseWriter, r *http.Request) {
	insp, err := s.inspections.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insp)
}

// handleDeleteInspection removes an inspection and its results.
func (s *Server) handleDeleteInspection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.inspections.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handleGetChecklist returns the inspection with one row per device in
// its snapshot, in zone order, plus completion counts.
func (s *Server) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	checklist, err := s.inspections.Checklist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if checklist.Items == nil {
		checklist.Items = []inspection.ChecklistItem{}
	}
	writeJSON(w, http.StatusOK, checklist)
}

// handleRecordResult upserts the result for one device in an inspection.
func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	var req recordResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := s.inspections.Record(
		r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "deviceId"),
		req.Status,
		req.Comment,
	)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRecordResultsBulk records a batch of results in one transaction.
func (s *Server) handleRecordResultsBulk(w http.ResponseWriter, r *http.Request) {
	inspectionID := chi.URLParam(r, "id")

	var req recordBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.inspections.RecordBulk(r.Context(), inspectionID, req.Results); err != nil {
		s.writeDomainError(w, err)
		return
	}

	checklist, err := s.inspections.Checklist(r.Context(), inspectionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checklist)
}

// handleFinalizeInspection sets the inspection's overall status.
func (s *Server) handleFinalizeInspection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	insp, err := s.inspections.Finalize(r.Context(), id, req.OverallStatus, req.Notes)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.publishEvent(topics.InspectionEvent("finalized", insp.ID), insp)
	s.recordFinalizeMetrics(r, insp)

	writeJSON(w, http.StatusOK, insp)
}

// recordFinalizeMetrics writes the inspection outcome to InfluxDB.
func (s *Server) recordFinalizeMetrics(r *http.Request, insp *inspection.Inspection) {
	if s.influx == nil {
		return
	}

	checklist, err := s.inspections.Checklist(r.Context(), insp.ID)
	if err != nil {
		return
	}

	s.influx.WriteInspectionFinalized(
		insp.PanelID,
		insp.ID,
		string(insp.OverallStatus),
		checklist.Counts.Passed,
		checklist.Counts.Failed,
		checklist.Counts.NA,
		checklist.Counts.NotTested,
		time.Since(insp.StartedAt),
	)
}
