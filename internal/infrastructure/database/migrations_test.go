package database

import "testing"

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantIsUp    bool
		wantOK      bool
	}{
		{
			name:        "valid up migration",
			filename:    "20260110_120000_initial_schema.up.sql",
			wantVersion: "20260110_120000",
			wantIsUp:    true,
			wantOK:      true,
		},
		{
			name:        "valid down migration",
			filename:    "20260110_120000_initial_schema.down.sql",
			wantVersion: "20260110_120000",
			wantIsUp:    false,
			wantOK:      true,
		},
		{
			name:        "multi word description",
			filename:    "20260201_090000_add_device_identity_index.up.sql",
			wantVersion: "20260201_090000",
			wantIsUp:    true,
			wantOK:      true,
		},
		{
			name:     "missing direction",
			filename: "20260110_120000_initial_schema.sql",
			wantOK:   false,
		},
		{
			name:     "not a sql file",
			filename: "20260110_120000_initial_schema.up.txt",
			wantOK:   false,
		},
		{
			name:     "no description or timestamp",
			filename: "20260110.up.sql",
			wantOK:   false,
		},
		{
			name:     "unrelated file",
			filename: "README.md",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if isUp != tt.wantIsUp {
				t.Errorf("isUp = %v, want %v", isUp, tt.wantIsUp)
			}
		})
	}
}

func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20260110_120000_initial_schema.up.sql", "initial_schema"},
		{"20260110_120000_initial_schema.down.sql", "initial_schema"},
		{"20260201_090000_add_device_identity_index.up.sql", "add_device_identity_index"},
		{"20260110_120000.up.sql", "20260110_120000"},
	}

	for _, tt := range tests {
		if got := extractMigrationName(tt.filename); got != tt.want {
			t.Errorf("extractMigrationName(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
