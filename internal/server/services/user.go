// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and bearer tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/cryptox"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/dmitrijs2005/passkeeper/internal/server/auth"
	"github.com/dmitrijs2005/passkeeper/internal/server/config"
	smodels "github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Authenticate: resolve a bearer token to a user id
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	now                   func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		logger:                logger,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		now:                   time.Now,
	}
}

// Register creates an account. A taken email (in any letter case) yields
// common.ErrConflict.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	req = req.Normalize()
	if err := req.Validate(false); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, common.NewValidationError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &smodels.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login verifies the password and returns a fresh token. Unknown email and
// wrong password both yield common.ErrInvalidCredentials.
//
// Accounts still carrying a legacy hash are upgraded to bcrypt on the first
// successful login.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the response time close to a real check
			_, _ = cryptox.CheckPassword(decoyHash(), req.Password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, legacy := cryptox.CheckPassword(user.PasswordHash, req.Password)
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	if legacy {
		s.upgradeHash(ctx, user, req.Password)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return s.issue(user)
}

// Authenticate returns the user id carried by a valid token.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// --- helpers below ---

func (s *UserService) issue(user *smodels.User) (*models.AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &models.AuthResult{User: user.Public(), Token: token}, nil
}

func (s *UserService) upgradeHash(ctx context.Context, user *smodels.User, password string) {
	hash, err := cryptox.HashPassword(password)
	if err == nil {
		err = s.repomanager.Users(s.db).UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		s.logger.Warn(ctx, "legacy hash upgrade failed", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
	s.logger.Info(ctx, "legacy hash upgraded", "user_id", user.ID)
}

var decoyHash = sync.OnceValue(func() string {
	h, _ := cryptox.HashPassword(uuid.NewString())
	return h
})
