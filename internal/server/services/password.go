package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PasswordService manages a user's stored credentials. Every call is scoped
// to userID; rows of other users are reported as common.ErrorNotFound.
type PasswordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewPasswordService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *PasswordService {
	return &PasswordService{db: db, repomanager: m, logger: logger, now: time.Now}
}

// List returns the user's credentials, newest first.
func (s *PasswordService) List(ctx context.Context, userID string) ([]*models.Credential, error) {
	return s.repomanager.Passwords(s.db).ListByUser(ctx, userID)
}

// Create stores c for userID. A caller-supplied id makes the call
// idempotent: repeating it returns the row stored the first time.
func (s *PasswordService) Create(ctx context.Context, userID string, c *models.Credential) (*models.Credential, error) {
	if err := c.ValidateStored(); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if !isUUID(c.ID) {
		return nil, common.NewValidationError("id", "is not a valid UUID")
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	rec := &models.Credential{
		ID:            c.ID,
		UserID:        userID,
		Title:         strings.TrimSpace(c.Title),
		Username:      strings.TrimSpace(c.Username),
		SecretEncoded: c.SecretEncoded,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	rec.Platform = rec.Title

	repo := s.repomanager.Passwords(s.db)
	err := repo.Insert(ctx, rec)
	if errors.Is(err, common.ErrorAlreadyExists) {
		existing, getErr := repo.GetByID(ctx, rec.ID, userID)
		if errors.Is(getErr, common.ErrorNotFound) {
			return nil, common.NewValidationError("id", "is already taken")
		}
		if getErr != nil {
			return nil, getErr
		}
		s.logger.Debug(ctx, "duplicate create ignored", "user_id", userID, "id", rec.ID)
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error creating password: %w", err)
	}

	s.logger.Info(ctx, "password created", "user_id", userID, "id", rec.ID)
	return rec, nil
}

// Update replaces title, username and secret of an existing row and bumps
// updated_at. created_at is kept.
func (s *PasswordService) Update(ctx context.Context, userID string, c *models.Credential) (*models.Credential, error) {
	if !isUUID(c.ID) {
		return nil, common.ErrorNotFound
	}
	if err := c.ValidateStored(); err != nil {
		return nil, err
	}

	var updated *models.Credential
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Passwords(tx)

		cur, err := repo.GetByID(ctx, c.ID, userID)
		if err != nil {
			return err
		}

		cur.Title = strings.TrimSpace(c.Title)
		cur.Username = strings.TrimSpace(c.Username)
		cur.SecretEncoded = c.SecretEncoded
		cur.Platform = cur.Title
		cur.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)

		if err := repo.Update(ctx, cur); err != nil {
			return err
		}
		updated = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "password updated", "user_id", userID, "id", c.ID)
	return updated, nil
}

func (s *PasswordService) Delete(ctx context.Context, userID, id string) error {
	if !isUUID(id) {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Passwords(s.db).Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info(ctx, "password deleted", "user_id", userID, "id", id)
	return nil
}

// isUUID guards the postgres uuid column against malformed ids.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
