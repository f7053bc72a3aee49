package passwords

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	"github.com/dmitrijs2005/passkeeper/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, username, password_encrypted, platform, created_at, updated_at
		 FROM passwords WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select passwords: %w", err)
	}
	return scanAll(rows)
}

func (r *SQLiteRepository) Insert(ctx context.Context, c *models.Credential) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO passwords (id, user_id, title, username, password_encrypted, platform, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		c.ID, c.UserID, c.Title, c.Username, c.SecretEncoded, c.Platform, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorAlreadyExists)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id, userID string) (*models.Credential, error) {
	return scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, username, password_encrypted, platform, created_at, updated_at
		 FROM passwords WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *SQLiteRepository) Update(ctx context.Context, c *models.Credential) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE passwords SET title = ?, username = ?, password_encrypted = ?, platform = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		c.Title, c.Username, c.SecretEncoded, c.Platform, c.UpdatedAt, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM passwords WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorNotFound)
}
