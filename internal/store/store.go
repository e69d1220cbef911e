// Package store provides database access methods for all CeylonRover
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import "database/sql"

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Methods that
// must participate in the moderation transaction take a DBTX so the
// workflow can run them against the tx while plain callers pass the pool.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
