// Package users stores accounts in the users table.
package users

import (
	"context"

	"github.com/dmitrijs2005/passkeeper/internal/server/models"
)

// Repository is implemented for PostgreSQL and SQLite.
//
// Create returns common.ErrorAlreadyExists when the email is taken (compared
// case-insensitively). Lookups return common.ErrorNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
