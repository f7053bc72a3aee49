package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/passkeeper/internal/filex"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const sessionKey = "session"

// SQLiteStore keeps the session in the metadata table of a local SQLite
// database.
type SQLiteStore struct {
	db   *sql.DB
	meta *metadataRepository
}

// RunMigrations applies the embedded local schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, "sqlite")
}

// OpenSQLiteStore opens (creating if needed) the database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, meta: &metadataRepository{db: db}}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.Session, error) {
	b, err := s.meta.get(ctx, sessionKey)
	if err != nil || b == nil {
		return nil, err
	}
	return decode(b)
}

func (s *SQLiteStore) Save(ctx context.Context, sess *models.Session) error {
	b, err := encode(sess)
	if err != nil {
		return err
	}
	return s.meta.set(ctx, sessionKey, b)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.meta.delete(ctx, sessionKey)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
