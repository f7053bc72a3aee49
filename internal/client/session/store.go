// Package session persists the signed-in user between CLI runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/models"
)

// ErrCorrupt is returned by Load when the stored session cannot be decoded.
var ErrCorrupt = errors.New("stored session is corrupt")

// Store keeps at most one session. Load returns (nil, nil) when nothing is
// stored.
type Store interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

func encode(s *models.Session) ([]byte, error) {
	if s == nil || s.ID == "" {
		return nil, fmt.Errorf("refusing to save an empty session")
	}
	return json.Marshal(s)
}

func decode(b []byte) (*models.Session, error) {
	var s models.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if s.ID == "" || s.Email == "" {
		return nil, ErrCorrupt
	}
	return &s, nil
}
