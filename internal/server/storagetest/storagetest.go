// Package storagetest opens migrated in-memory SQLite databases for tests.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/passkeeper/internal/server/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// OpenSQLite returns a fresh in-memory database with the server schema.
// The pool is limited to one connection: every new connection to
// ":memory:" would see its own empty database.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	goose.SetBaseFS(migrations.SQLite)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "sqlite"))

	return db
}
