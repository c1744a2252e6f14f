// Package postgres provides PostgreSQL-backed implementations of the
// notify Storage, Ledger, and PreferenceStore interfaces over a shared
// pgx/v5 connection pool. The schema lives in migrations/ and is applied
// with pkg/pg.Migrate.
//
// The delivery_attempts table is append-only; attempt numbers are assigned
// per (notification, channel) with an insert-time subselect so concurrent
// channel tasks never collide.
package postgres
