// Package influxdb provides optional time-series recording of inspection
// activity.
//
// When enabled, the service writes a point when an inspection starts and
// another when it is finalised, plus registry size snapshots after bulk
// device operations. Writes are batched and asynchronous; a write failure
// never affects the operation that triggered it.
package influxdb
