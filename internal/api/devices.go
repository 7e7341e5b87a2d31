package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inspectra/inspectra-core/internal/device"
)

// bulkUpsertRequest is the body for a bulk device upsert.
type bulkUpsertRequest struct {
	Devices      []device.Input `json:"devices"`
	PruneMissing bool           `json:"prune_missing"`
}

// bulkRequest is the body for bulk create and replace-all.
type bulkRequest struct {
	Devices []device.Input `json:"devices"`
}

// handleListDevices returns a panel's devices in zone order.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	panelID := chi.URLParam(r, "id")

	// Surface a 404 for unknown panels rather than an empty list.
	if _, err := s.panels.GetByID(r.Context(), panelID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	devices, err := s.devices.ListByPanel(r.Context(), panelID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if devices == nil {
		devices = []device.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleCreateDevice validates and inserts one device.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var input device.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d, err := s.reconciler.Create(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// handleBulkUpsertDevices applies an all-or-nothing batch of device
// rows, optionally pruning devices absent from the batch.
func (s *Server) handleBulkUpsertDevices(w http.ResponseWriter, r *http.Request) {
	panelID := chi.URLParam(r, "id")

	var req bulkUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	devices, err := s.reconciler.BulkUpsert(r.Context(), panelID, req.Devices, req.PruneMissing)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.publishDeviceCount(panelID, len(devices))
	if devices == nil {
		devices = []device.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleBulkCreateDevices inserts a batch of new devices, returning a
// per-row success/failure report.
func (s *Server) handleBulkCreateDevices(w http.ResponseWriter, r *http.Request) {
	panelID := chi.URLParam(r, "id")

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	report, err := s.reconciler.BulkCreate(r.Context(), panelID, req.Devices)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if report.Created == nil {
		report.Created = []device.Device{}
	}
	if report.Errors == nil {
		report.Errors = []device.RowError{}
	}
	writeJSON(w, http.StatusOK, report)
}

// handleReplaceAllDevices replaces the panel's entire device roster.
func (s *Server) handleReplaceAllDevices(w http.ResponseWriter, r *http.Request) {
	panelID := chi.URLParam(r, "id")

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	devices, err := s.reconciler.ReplaceAll(r.Context(), panelID, req.Devices)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.publishEvent(topics.DeviceEvent("replaced", panelID), map[string]any{
		"panel_id": panelID,
		"count":    len(devices),
	})
	s.publishDeviceCount(panelID, len(devices))

	if devices == nil {
		devices = []device.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleGetDevice returns one device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	d, err := s.devices.GetByID(r.Context(), chi.URLParam(r, "deviceId"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleUpdateDevice modifies one device in place.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	var input device.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d, err := s.reconciler.Update(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "deviceId"), input)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleDeleteDevice removes one device.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")
	if err := s.reconciler.Delete(r.Context(), deviceID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": deviceID})
}

// publishDeviceCount records the registry size after bulk operations.
func (s *Server) publishDeviceCount(panelID string, count int) {
	if s.influx != nil {
		s.influx.WriteDeviceCount(panelID, count)
	}
}
