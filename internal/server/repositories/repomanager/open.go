package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server. Anything
// else is treated as a SQLite file path.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to dsn, picks the matching manager and migrates the schema.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	if dsn == "" {
		return nil, nil, fmt.Errorf("database dsn is empty")
	}

	var (
		db  *sql.DB
		m   RepositoryManager
		err error
	)
	if IsPostgresDSN(dsn) {
		db, err = openPostgres(ctx, dsn)
		m = NewPostgresRepositoryManager()
	} else {
		db, err = OpenSQLite(ctx, dsn)
		m = NewSQLiteRepositoryManager()
	}
	if err != nil {
		return nil, nil, err
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, m, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// OpenSQLite opens the database file at path with WAL and foreign keys on.
// The pool holds a single connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
