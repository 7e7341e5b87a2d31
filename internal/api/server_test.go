package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/inspectra/inspectra-core/internal/device"
	"github.com/inspectra/inspectra-core/internal/infrastructure/config"
	"github.com/inspectra/inspectra-core/internal/infrastructure/database"
	"github.com/inspectra/inspectra-core/internal/infrastructure/logging"
	"github.com/inspectra/inspectra-core/internal/inspection"
	"github.com/inspectra/inspectra-core/internal/panel"
)

const testSchema = `
	CREATE TABLE panels (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		addressing_mode TEXT NOT NULL CHECK (addressing_mode IN ('ZONE', 'ADDRESS')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE devices (
		id TEXT PRIMARY KEY,
		panel_id TEXT NOT NULL REFERENCES panels(id) ON DELETE CASCADE,
		zone TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		category_other TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		identity_key TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX idx_devices_identity ON devices(panel_id, identity_key);
	CREATE TABLE inspections (
		id TEXT PRIMARY KEY,
		panel_id TEXT NOT NULL REFERENCES panels(id) ON DELETE CASCADE,
		inspector_name TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		overall_status TEXT NOT NULL CHECK (overall_status IN ('IN_PROGRESS', 'PASSED', 'FAILED')),
		started_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE inspection_results (
		id TEXT PRIMARY KEY,
		inspection_id TEXT NOT NULL REFERENCES inspections(id) ON DELETE CASCADE,
		device_id TEXT NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
		status TEXT NOT NULL CHECK (status IN ('NOT_TESTED', 'PASS', 'FAIL', 'NA')),
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX idx_results_inspection_device ON inspection_results(inspection_id, device_id);
`

// newTestRouter wires a full server against an in-memory database, with
// MQTT and InfluxDB left nil.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec(testSchema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	db := &database.DB{DB: sqlDB}
	panels := panel.NewSQLiteRepository(sqlDB)

	srv, err := New(Deps{
		Config:      config.APIConfig{},
		Logger:      logging.Default(),
		DB:          db,
		Panels:      panels,
		Devices:     device.NewSQLiteRepository(sqlDB),
		Reconciler:  device.NewReconciler(db, panels),
		Inspections: inspection.NewService(db, panels),
		Version:     "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return srv.buildRouter()
}

// doJSON performs a request with an optional JSON body and decodes the
// response into out when it is non-nil.
func doJSON(t *testing.T, router http.Handler, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}
	return rec
}

// createPanel is a shortcut used by most endpoint tests.
func createPanel(t *testing.T, router http.Handler, mode panel.AddressingMode) panel.Panel {
	t.Helper()

	var p panel.Panel
	rec := doJSON(t, router, http.MethodPost, "/api/v1/panels", panel.Input{
		Name:           "Test Panel",
		AddressingMode: mode,
	}, &p)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create panel status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return p
}

func TestServer_Health(t *testing.T) {
	router := newTestRouter(t)

	var resp map[string]any
	rec := doJSON(t, router, http.MethodGet, "/api/v1/health", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}

func TestServer_PanelLifecycle(t *testing.T) {
	router := newTestRouter(t)
	p := createPanel(t, router, panel.AddressingModeZone)

	t.Run("get and list", func(t *testing.T) {
		var got panel.Panel
		if rec := doJSON(t, router, http.MethodGet, "/api/v1/panels/"+p.ID, nil, &got); rec.Code != http.StatusOK {
			t.Fatalf("get panel status = %d", rec.Code)
		}
		if got.ID != p.ID {
			t.Errorf("ID = %q, want %q", got.ID, p.ID)
		}

		var list []panel.Panel
		if rec := doJSON(t, router, http.MethodGet, "/api/v1/panels", nil, &list); rec.Code != http.StatusOK {
			t.Fatalf("list panels status = %d", rec.Code)
		}
		if len(list) != 1 {
			t.Errorf("panel count = %d, want 1", len(list))
		}
	})

	t.Run("mode change rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/v1/panels/"+p.ID, panel.Input{
			Name:           "Renamed",
			AddressingMode: panel.AddressingModeAddress,
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("update status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing name rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/panels", panel.Input{
			AddressingMode: panel.AddressingModeZone,
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("create status = %d, want 400", rec.Code)
		}
	})

	t.Run("delete then 404", func(t *testing.T) {
		if rec := doJSON(t, router, http.MethodDelete, "/api/v1/panels/"+p.ID, nil, nil); rec.Code != http.StatusOK {
			t.Fatalf("delete status = %d", rec.Code)
		}
		if rec := doJSON(t, router, http.MethodGet, "/api/v1/panels/"+p.ID, nil, nil); rec.Code != http.StatusNotFound {
			t.Errorf("get after delete status = %d, want 404", rec.Code)
		}
	})
}

func TestServer_DeviceIdentity(t *testing.T) {
	router := newTestRouter(t)
	p := createPanel(t, router, panel.AddressingModeZone)
	devicesPath := "/api/v1/panels/" + p.ID + "/devices"

	rec := doJSON(t, router, http.MethodPost, devicesPath, device.Input{
		Zone: "1", Category: "Smoke",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	t.Run("same zone without description collides", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, devicesPath, device.Input{
			Zone: "1", Category: "Heat",
		}, nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("duplicate create status = %d, want 409", rec.Code)
		}
	})

	t.Run("distinct description separates", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, devicesPath, device.Input{
			Zone: "1", Category: "Heat", Description: "plant room ceiling",
		}, nil)
		if rec.Code != http.StatusCreated {
			t.Errorf("create status = %d, want 201, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("validation failure reports messages", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, devicesPath, device.Input{
			Category: "Sprinkler",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("invalid create status = %d, want 400", rec.Code)
		}
	})

	t.Run("bulk create reports per-row outcomes", func(t *testing.T) {
		var report device.BulkCreateReport
		rec := doJSON(t, router, http.MethodPost, devicesPath+"/bulk", bulkRequest{
			Devices: []device.Input{
				{Zone: "2", Category: "Sounder"},
				{Zone: "2", Category: "Beacon"}, // collides with the row above
				{Zone: "3", Category: "Call Point"},
			},
		}, &report)
		if rec.Code != http.StatusOK {
			t.Fatalf("bulk create status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if len(report.Created) != 2 {
			t.Errorf("created = %d, want 2", len(report.Created))
		}
		if len(report.Errors) != 1 || report.Errors[0].Index != 1 {
			t.Errorf("errors = %+v, want one error at index 1", report.Errors)
		}
	})

	t.Run("list is zone ordered", func(t *testing.T) {
		var devices []device.Device
		if rec := doJSON(t, router, http.MethodGet, devicesPath, nil, &devices); rec.Code != http.StatusOK {
			t.Fatalf("list status = %d", rec.Code)
		}
		want := []string{"1", "1", "2", "3"}
		if len(devices) != len(want) {
			t.Fatalf("device count = %d, want %d", len(devices), len(want))
		}
		for i := range want {
			if devices[i].Zone != want[i] {
				t.Fatalf("zone at %d = %q, want %q", i, devices[i].Zone, want[i])
			}
		}
	})

	t.Run("unknown panel yields 404 not empty list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/panels/nope/devices", nil, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("list status = %d, want 404", rec.Code)
		}
	})
}

func TestServer_InspectionFlow(t *testing.T) {
	router := newTestRouter(t)
	p := createPanel(t, router, panel.AddressingModeZone)
	devicesPath := "/api/v1/panels/" + p.ID + "/devices"

	var devices []device.Device
	rec := doJSON(t, router, http.MethodPut, devicesPath, bulkUpsertRequest{
		Devices: []device.Input{
			{Zone: "1", Category: "Smoke"},
			{Zone: "2", Category: "Heat"},
		},
	}, &devices)
	if rec.Code != http.StatusOK || len(devices) != 2 {
		t.Fatalf("bulk upsert status = %d, devices = %d", rec.Code, len(devices))
	}

	var insp inspection.Inspection
	rec = doJSON(t, router, http.MethodPost, "/api/v1/panels/"+p.ID+"/inspections", startInspectionRequest{
		InspectorName: "Alex",
	}, &insp)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start inspection status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resultPath := func(deviceID string) string {
		return fmt.Sprintf("/api/v1/inspections/%s/results/%s", insp.ID, deviceID)
	}

	t.Run("FAIL without comment rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, resultPath(devices[0].ID), recordResultRequest{
			Status: inspection.ResultFail,
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("record status = %d, want 400", rec.Code)
		}
	})

	t.Run("record and read back checklist", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, resultPath(devices[0].ID), recordResultRequest{
			Status: inspection.ResultPass,
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("record status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var cl inspection.Checklist
		if rec := doJSON(t, router, http.MethodGet, "/api/v1/inspections/"+insp.ID+"/checklist", nil, &cl); rec.Code != http.StatusOK {
			t.Fatalf("checklist status = %d", rec.Code)
		}
		if cl.Counts.Total != 2 || cl.Counts.Passed != 1 || cl.Counts.NotTested != 1 {
			t.Errorf("counts = %+v", cl.Counts)
		}
	})

	t.Run("bulk record returns updated checklist", func(t *testing.T) {
		var cl inspection.Checklist
		rec := doJSON(t, router, http.MethodPut, "/api/v1/inspections/"+insp.ID+"/results", recordBulkRequest{
			Results: []inspection.ResultEntry{
				{DeviceID: devices[1].ID, Status: inspection.ResultNA, Comment: "head removed for decoration"},
			},
		}, &cl)
		if rec.Code != http.StatusOK {
			t.Fatalf("bulk record status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if cl.Counts.NotTested != 0 {
			t.Errorf("NotTested = %d, want 0", cl.Counts.NotTested)
		}
	})

	t.Run("finalize", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/inspections/"+insp.ID+"/finalize", finalizeRequest{
			OverallStatus: "MAYBE",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("finalize status = %d, want 400", rec.Code)
		}

		var got inspection.Inspection
		rec = doJSON(t, router, http.MethodPost, "/api/v1/inspections/"+insp.ID+"/finalize", finalizeRequest{
			OverallStatus: inspection.StatusPassed,
			Notes:         "all devices tested",
		}, &got)
		if rec.Code != http.StatusOK {
			t.Fatalf("finalize status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if got.OverallStatus != inspection.StatusPassed {
			t.Errorf("OverallStatus = %q, want PASSED", got.OverallStatus)
		}
	})

	t.Run("delete inspection", func(t *testing.T) {
		if rec := doJSON(t, router, http.MethodDelete, "/api/v1/inspections/"+insp.ID, nil, nil); rec.Code != http.StatusOK {
			t.Fatalf("delete status = %d", rec.Code)
		}
		if rec := doJSON(t, router, http.MethodGet, "/api/v1/inspections/"+insp.ID, nil, nil); rec.Code != http.StatusNotFound {
			t.Errorf("get after delete status = %d, want 404", rec.Code)
		}
	})
}
