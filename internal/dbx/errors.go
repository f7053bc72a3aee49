package dbx

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE PostgreSQL reports for a duplicate key.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either PostgreSQL (pgx) or SQLite (modernc).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
