package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database access shared by *sql.DB and *sql.Tx, so
// stores can run either on the pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
