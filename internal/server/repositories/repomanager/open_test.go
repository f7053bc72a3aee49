package repomanager

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteFileMigratesAndServesRepos(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "server.db")

	db, m, err := Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = m.Users(db).Create(ctx, &models.User{
		ID: "u1", Email: "a@b.co", PasswordHash: "h", FullName: "A", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	list, err := m.Passwords(db).ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	db2, _, err := Open(ctx, path)
	require.NoError(t, err, "second open must find the schema already applied")
	_ = db2.Close()
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, _, err := Open(context.Background(), "")
	assert.Error(t, err)
}
