// Package panel manages fire alarm panels, the root aggregate of the
// Inspectra data model.
//
// A panel owns a device registry and a history of inspections. Its
// addressing mode (ZONE or ADDRESS) is chosen at creation time and is
// immutable afterwards, because device identity derivation depends on
// it: changing the mode would silently re-key every device on the panel.
package panel
