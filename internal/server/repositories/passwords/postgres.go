package passwords

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	"github.com/dmitrijs2005/passkeeper/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	query := `SELECT id, user_id, title, username, password_encrypted, platform, created_at, updated_at
		FROM passwords
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select passwords: %w", err)
	}
	return scanAll(rows)
}

// Insert relies on ON CONFLICT DO NOTHING so that a retried create with the
// same id leaves a single row.
func (r *PostgresRepository) Insert(ctx context.Context, c *models.Credential) error {
	query := `
		INSERT INTO passwords (id, user_id, title, username, password_encrypted, platform, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Title, c.Username, c.SecretEncoded, c.Platform, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorAlreadyExists)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.Credential, error) {
	query := `SELECT id, user_id, title, username, password_encrypted, platform, created_at, updated_at
		FROM passwords
		WHERE id = $1 AND user_id = $2
		`
	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Credential) error {
	query := `
		UPDATE passwords
		SET title = $3, username = $4, password_encrypted = $5, platform = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Title, c.Username, c.SecretEncoded, c.Platform, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM passwords WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scan(s rowScanner) (*models.Credential, error) {
	var c models.Credential
	if err := s.Scan(&c.ID, &c.UserID, &c.Title, &c.Username, &c.SecretEncoded,
		&c.Platform, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func scanOne(row *sql.Row) (*models.Credential, error) {
	c, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func scanAll(rows *sql.Rows) ([]*models.Credential, error) {
	defer rows.Close()

	result := []*models.Credential{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// expectOne maps zero affected rows to errNone.
func expectOne(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return errNone
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
