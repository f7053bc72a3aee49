package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	"github.com/dmitrijs2005/passkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/passwords"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. It serves
// single-node deployments and the embedded client mode.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Passwords(db dbx.DBTX) passwords.Repository {
	return passwords.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "sqlite")
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
