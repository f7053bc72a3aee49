package remote

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/dmitrijs2005/passkeeper/internal/server/config"
	smodels "github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passkeeper/internal/server/services"
)

// Embedded serves the record store in-process from a database opened with
// repomanager.Open, so the CLI works without a server. Backups need object
// storage and are not offered.
type Embedded struct {
	db        *sql.DB
	users     *services.UserService
	passwords *services.PasswordService
}

func NewEmbedded(ctx context.Context, dsn string, logger logging.Logger) (*Embedded, error) {
	db, rm, err := repomanager.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	// tokens never leave the process; any key will do
	cfg := &config.Config{
		SecretKey:             hex.EncodeToString(common.GenerateRandByteArray(32)),
		TokenValidityDuration: 24 * time.Hour,
	}

	return &Embedded{
		db:        db,
		users:     services.NewUserService(db, rm, cfg, logger.With("module", "users")),
		passwords: services.NewPasswordService(db, rm, logger.With("module", "passwords")),
	}, nil
}

func (e *Embedded) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	return e.users.Register(ctx, req)
}

func (e *Embedded) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	return e.users.Login(ctx, req)
}

func (e *Embedded) ListPasswords(ctx context.Context, userID string) ([]*models.Credential, error) {
	return e.passwords.List(ctx, userID)
}

func (e *Embedded) InsertPassword(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	return e.passwords.Create(ctx, c.UserID, c)
}

func (e *Embedded) UpdatePassword(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	return e.passwords.Update(ctx, c.UserID, c)
}

func (e *Embedded) DeletePassword(ctx context.Context, id, userID string) error {
	return e.passwords.Delete(ctx, userID, id)
}

func (e *Embedded) Backup(context.Context, string) (*smodels.BackupInfo, error) {
	return nil, ErrBackupsUnavailable
}

func (e *Embedded) Close() error {
	return e.db.Close()
}
