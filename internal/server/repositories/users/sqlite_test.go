package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/server/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_CreateAndGet(t *testing.T) {
	r := NewSQLiteRepository(storagetest.OpenSQLite(t))
	ctx := context.Background()

	u := testUser()
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	got, err := r.GetByEmail(ctx, "ALICE@example.org")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, u.CreatedAt)
}

func TestSQLite_DuplicateEmailIgnoresCase(t *testing.T) {
	r := NewSQLiteRepository(storagetest.OpenSQLite(t))
	ctx := context.Background()

	_, err := r.Create(ctx, testUser())
	require.NoError(t, err)

	dup := testUser()
	dup.ID = "another-id"
	dup.Email = "Alice@Example.ORG"
	_, err = r.Create(ctx, dup)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSQLite_NotFound(t *testing.T) {
	r := NewSQLiteRepository(storagetest.OpenSQLite(t))

	_, err := r.GetByEmail(context.Background(), "nobody@example.org")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = r.UpdatePasswordHash(context.Background(), "missing", "h")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_UpdatePasswordHash(t *testing.T) {
	r := NewSQLiteRepository(storagetest.OpenSQLite(t))
	ctx := context.Background()

	u := testUser()
	u.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	require.NoError(t, r.UpdatePasswordHash(ctx, u.ID, "$2a$10$new"))

	got, err := r.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$new", got.PasswordHash)
}
