// Package passwords stores encoded credentials in the passwords table.
package passwords

import (
	"context"

	"github.com/dmitrijs2005/passkeeper/internal/models"
)

// Repository is implemented for PostgreSQL and SQLite. Every operation is
// scoped to the owning user; rows of other users behave as missing.
type Repository interface {
	// ListByUser returns the user's rows, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Credential, error)
	// Insert returns common.ErrorAlreadyExists when the id is already stored.
	Insert(ctx context.Context, c *models.Credential) error
	GetByID(ctx context.Context, id, userID string) (*models.Credential, error)
	// Update rewrites the editable columns and updated_at.
	Update(ctx context.Context, c *models.Credential) error
	Delete(ctx context.Context, id, userID string) error
}
