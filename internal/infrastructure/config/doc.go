// Package config loads and validates Inspectra Core configuration.
//
// Configuration comes from three layers, later layers overriding earlier:
//
//  1. Hardcoded defaults (defaultConfig)
//  2. A YAML file (configs/config.yaml by default)
//  3. Environment variables (INSPECTRA_SECTION_KEY)
//
// Secrets (MQTT credentials, InfluxDB token) should be supplied via
// environment variables rather than committed to the YAML file.
package config
