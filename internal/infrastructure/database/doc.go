// Package database provides the SQLite persistence layer for Inspectra Core.
//
// It wraps database/sql with connection setup (WAL mode, busy timeout,
// foreign keys), embedded schema migrations, and health checks. All
// repositories receive a *DB and run their multi-row operations inside
// transactions obtained from BeginTx.
package database
