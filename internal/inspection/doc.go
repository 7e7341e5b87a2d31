// Package inspection drives the inspection checklist lifecycle.
//
// Starting an inspection snapshots the panel's device registry: one
// NOT_TESTED result row is seeded per device. The snapshot is fixed at
// start time; devices added to the panel afterwards do not join an
// in-progress inspection. Results are then recorded per device, and the
// inspection is finalised as PASSED or FAILED. Finalisation is
// overwritable rather than terminal, so a mis-keyed outcome can be
// corrected; completion policy (requiring every device tested before
// finalising) belongs to the caller, which gets the counts it needs
// from the checklist read.
package inspection
