// Package repomanager vends dialect-specific repositories and runs the
// matching schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/passwords"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Passwords(db dbx.DBTX) passwords.Repository
}
