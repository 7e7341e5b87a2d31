package panel

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the panel and
// device tables, so cascade behaviour can be exercised.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
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
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestSQLiteRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	t.Run("creates panel with defaults", func(t *testing.T) {
		p, err := repo.Create(ctx, Input{Name: " Main Building FACP ", AddressingMode: AddressingModeZone})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if p.ID == "" {
			t.Error("expected generated ID")
		}
		if p.Name != "Main Building FACP" {
			t.Errorf("Name = %q, want trimmed name", p.Name)
		}

		got, err := repo.GetByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.AddressingMode != AddressingModeZone {
			t.Errorf("AddressingMode = %q, want ZONE", got.AddressingMode)
		}
	})

	t.Run("omitted mode defaults to ZONE", func(t *testing.T) {
		p, err := repo.Create(ctx, Input{Name: "No Mode Panel"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if p.AddressingMode != AddressingModeZone {
			t.Errorf("AddressingMode = %q, want ZONE", p.AddressingMode)
		}

		got, err := repo.GetByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.AddressingMode != AddressingModeZone {
			t.Errorf("stored AddressingMode = %q, want ZONE", got.AddressingMode)
		}
	})

	t.Run("requires name", func(t *testing.T) {
		_, err := repo.Create(ctx, Input{AddressingMode: AddressingModeZone})
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("Create() error = %v, want ErrInvalidName", err)
		}
	})

	t.Run("rejects unknown addressing mode", func(t *testing.T) {
		_, err := repo.Create(ctx, Input{Name: "P", AddressingMode: "LOOP"})
		if !errors.Is(err, ErrInvalidAddressingMode) {
			t.Errorf("Create() error = %v, want ErrInvalidAddressingMode", err)
		}
	})
}

func TestSQLiteRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	p, err := repo.Create(ctx, Input{Name: "Annex", AddressingMode: AddressingModeAddress})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("updates mutable fields", func(t *testing.T) {
		got, err := repo.Update(ctx, p.ID, Input{Name: "Annex Panel", Location: "Basement"})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.Name != "Annex Panel" || got.Location != "Basement" {
			t.Errorf("updated panel = %+v", got)
		}
	})

	t.Run("same mode passes, different mode is rejected", func(t *testing.T) {
		if _, err := repo.Update(ctx, p.ID, Input{Name: "Annex Panel", AddressingMode: AddressingModeAddress}); err != nil {
			t.Errorf("Update() with unchanged mode error = %v", err)
		}

		_, err := repo.Update(ctx, p.ID, Input{Name: "Annex Panel", AddressingMode: AddressingModeZone})
		if !errors.Is(err, ErrModeImmutable) {
			t.Errorf("Update() error = %v, want ErrModeImmutable", err)
		}
	})

	t.Run("unknown panel", func(t *testing.T) {
		_, err := repo.Update(ctx, "nope", Input{Name: "X"})
		if !errors.Is(err, ErrPanelNotFound) {
			t.Errorf("Update() error = %v, want ErrPanelNotFound", err)
		}
	})
}

func TestSQLiteRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	p, err := repo.Create(ctx, Input{Name: "Doomed", AddressingMode: AddressingModeZone})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Attach a device so the cascade is observable.
	_, err = db.Exec(`
		INSERT INTO devices (id, panel_id, zone, category, identity_key, created_at, updated_at)
		VALUES ('dev-1', ?, '1', 'Smoke', '1|', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		p.ID)
	if err != nil {
		t.Fatalf("inserting device: %v", err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM devices").Scan(&count); err != nil {
		t.Fatalf("counting devices: %v", err)
	}
	if count != 0 {
		t.Errorf("device count = %d, want 0 (cascade)", count)
	}

	if err := repo.Delete(ctx, p.ID); !errors.Is(err, ErrPanelNotFound) {
		t.Errorf("second Delete() error = %v, want ErrPanelNotFound", err)
	}
}

func TestSQLiteRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Bravo", "Alpha"} {
		if _, err := repo.Create(ctx, Input{Name: name, AddressingMode: AddressingModeZone}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	panels, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(panels) != 2 {
		t.Fatalf("panel count = %d, want 2", len(panels))
	}
	if panels[0].Name != "Alpha" || panels[1].Name != "Bravo" {
		t.Errorf("panels not ordered by name: %q, %q", panels[0].Name, panels[1].Name)
	}
}
