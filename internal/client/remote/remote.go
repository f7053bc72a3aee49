// Package remote connects the client to a record store: either a PassKeeper
// server over HTTP or the server's services running in-process over a local
// database.
package remote

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/passkeeper/internal/client/auth"
	"github.com/dmitrijs2005/passkeeper/internal/client/credentials"
	smodels "github.com/dmitrijs2005/passkeeper/internal/server/models"
)

// ErrBackupsUnavailable is returned by Backup when the backend has no object
// storage configured.
var ErrBackupsUnavailable = errors.New("backups are not available")

// TokenSource supplies the bearer token of the signed-in user.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Backend is everything the CLI needs from a record store.
type Backend interface {
	auth.Remote
	credentials.Remote
	Backup(ctx context.Context, userID string) (*smodels.BackupInfo, error)
	Close() error
}
