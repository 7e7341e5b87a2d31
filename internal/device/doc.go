// Package device manages a panel's device registry.
//
// The heart of the package is the identity key: a normalised dedup key
// derived from a device's fields according to the owning panel's
// addressing mode. On ADDRESS panels the key is the address; on ZONE
// panels it is zone plus description. No two devices on one panel may
// share a key.
//
// The Reconciler applies single and bulk changes to the registry, each
// as one transaction, enforcing key uniqueness both within a submitted
// batch and against stored state. A unique index on (panel_id,
// identity_key) backstops races the application-level checks cannot see.
package device
