package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a temporary YAML config and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: /var/lib/inspectra/core.db
api:
  port: 9090
logging:
  level: debug
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Database.Path != "/var/lib/inspectra/core.db" {
			t.Errorf("Database.Path = %q", cfg.Database.Path)
		}
		if cfg.API.Port != 9090 {
			t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
		}

		// Untouched sections keep defaults.
		if cfg.API.Host != "0.0.0.0" {
			t.Errorf("API.Host = %q, want default", cfg.API.Host)
		}
		if cfg.MQTT.Broker.Port != 1883 {
			t.Errorf("MQTT.Broker.Port = %d, want default", cfg.MQTT.Broker.Port)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: ./from-file.db
`)
		t.Setenv("INSPECTRA_DATABASE_PATH", "/tmp/from-env.db")
		t.Setenv("INSPECTRA_MQTT_PASSWORD", "hunter2")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Database.Path != "/tmp/from-env.db" {
			t.Errorf("Database.Path = %q, want env value", cfg.Database.Path)
		}
		if cfg.MQTT.Auth.Password != "hunter2" {
			t.Errorf("MQTT.Auth.Password not taken from environment")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("Load() = nil error, want failure")
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := writeConfig(t, `
api:
  port: 99999
mqtt:
  qos: 7
`)
		_, err := Load(path)
		if err == nil {
			t.Fatal("Load() = nil error, want validation failure")
		}
		if !strings.Contains(err.Error(), "api.port") || !strings.Contains(err.Error(), "mqtt.qos") {
			t.Errorf("error = %v, want both validation messages", err)
		}
	})
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg.InfluxDB.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("enabled influxdb without url should fail validation")
	}
}
