// Package credentials keeps the signed-in user's stored logins in memory and
// in sync with a remote record store.
//
// The cache changes only after the remote confirms a mutation. No lock is
// held while a remote call is in flight, so concurrent operations on the same
// record settle in arrival order: the last response wins. A call that spans a
// Reset (for example a logout while a list is loading) does not touch the
// cache and returns ErrStale.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/passkeeper/internal/codec"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrStale is returned when the store was reset while a call was pending.
	ErrStale = errors.New("response is stale")
	// ErrNotConfirmed is returned by Delete when the user declines.
	ErrNotConfirmed = errors.New("not confirmed")
	// ErrSecretLocked is returned by KeepSecret for a sealed secret the
	// current codec cannot open.
	ErrSecretLocked = errors.New("stored password cannot be decrypted with this vault passphrase")
)

// Remote is the record store backing the passwords table. List is ordered
// newest first. Update and delete match on id and user id together; a
// missing row is common.ErrorNotFound.
type Remote interface {
	ListPasswords(ctx context.Context, userID string) ([]*models.Credential, error)
	InsertPassword(ctx context.Context, c *models.Credential) (*models.Credential, error)
	UpdatePassword(ctx context.Context, c *models.Credential) (*models.Credential, error)
	DeletePassword(ctx context.Context, id, userID string) error
}

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// CodecFunc returns the secret codec for a user.
type CodecFunc func(userID string) codec.SecretCodec

type Store struct {
	remote   Remote
	codecFor CodecFunc
	logger   logging.Logger

	mu     sync.Mutex
	owner  string
	cache  []models.Credential
	gen    uint64
	codecs map[string]codec.SecretCodec
}

func NewStore(remote Remote, codecFor CodecFunc, logger logging.Logger) *Store {
	return &Store{remote: remote, codecFor: codecFor, logger: logger}
}

// List loads the user's credentials and replaces the cache. On failure the
// last good cache is kept.
func (s *Store) List(ctx context.Context, userID string) ([]models.Credential, error) {
	gen := s.generation()

	recs, err := s.remote.ListPasswords(ctx, userID)
	if err != nil {
		return nil, s.remoteErr(ctx, "list passwords", userID, err)
	}

	list := make([]models.Credential, 0, len(recs))
	for _, r := range recs {
		list = append(list, *r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil, ErrStale
	}
	s.owner = userID
	s.cache = list
	return slices.Clone(list), nil
}

// Create validates input, encodes the secret and submits a new record with a
// client-generated id. The record is prepended to the cache once stored.
func (s *Store) Create(ctx context.Context, userID, title, username, plaintext string) (*models.Credential, error) {
	in := models.CredentialInput{Title: title, Username: username, Secret: plaintext}.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	encoded, err := s.codecOf(userID).Encode(in.Secret)
	if err != nil {
		return nil, fmt.Errorf("encode secret: %w", err)
	}

	gen := s.generation()

	rec, err := s.remote.InsertPassword(ctx, &models.Credential{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         in.Title,
		Username:      in.Username,
		SecretEncoded: encoded,
		Platform:      in.Title,
	})
	if err != nil {
		return nil, s.remoteErr(ctx, "create password", userID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil, ErrStale
	}
	if s.owner != userID {
		s.owner = userID
		s.cache = nil
	}
	// a retried create may echo a record that is already cached
	s.cache = slices.DeleteFunc(s.cache, func(c models.Credential) bool { return c.ID == rec.ID })
	s.cache = slices.Insert(s.cache, 0, *rec)

	out := *rec
	return &out, nil
}

// Update replaces title, username and secret of record id. The cache entry is
// replaced in place, so list order is kept.
func (s *Store) Update(ctx context.Context, id, userID, title, username, plaintext string) (*models.Credential, error) {
	in := models.CredentialInput{Title: title, Username: username, Secret: plaintext}.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	encoded, err := s.codecOf(userID).Encode(in.Secret)
	if err != nil {
		return nil, fmt.Errorf("encode secret: %w", err)
	}

	gen := s.generation()

	rec, err := s.remote.UpdatePassword(ctx, &models.Credential{
		ID:            id,
		UserID:        userID,
		Title:         in.Title,
		Username:      in.Username,
		SecretEncoded: encoded,
		Platform:      in.Title,
	})
	if err != nil {
		return nil, s.remoteErr(ctx, "update password", userID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil, ErrStale
	}
	if s.owner == userID {
		if i := s.indexOf(id); i >= 0 {
			s.cache[i] = *rec
		}
	}

	out := *rec
	return &out, nil
}

// Delete removes record id after confirm approves. Nothing is sent to the
// remote when confirm is nil or declines.
func (s *Store) Delete(ctx context.Context, id, userID string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(s.deletePrompt(id)) {
		return ErrNotConfirmed
	}

	gen := s.generation()

	if err := s.remote.DeletePassword(ctx, id, userID); err != nil {
		return s.remoteErr(ctx, "delete password", userID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrStale
	}
	if s.owner == userID {
		s.cache = slices.DeleteFunc(s.cache, func(c models.Credential) bool { return c.ID == id })
	}
	return nil
}

// Reveal returns the plaintext of c's secret. A secret that cannot be
// decoded is shown as stored.
func (s *Store) Reveal(c models.Credential) string {
	plain, _ := s.RevealOK(c)
	return plain
}

// RevealOK is Reveal that also reports whether the codec could reverse the
// stored value.
func (s *Store) RevealOK(c models.Credential) (string, bool) {
	plain, ok := s.codecOf(c.UserID).Decode(c.SecretEncoded)
	if !ok {
		s.logger.Debug(context.Background(), "secret returned as stored", "id", c.ID)
	}
	return plain, ok
}

// KeepSecret returns the plaintext to resubmit when an edit keeps the current
// password. A sealed value that cannot be opened yields ErrSecretLocked, so
// the ciphertext is never sealed a second time.
func (s *Store) KeepSecret(c models.Credential) (string, error) {
	plain, ok := s.RevealOK(c)
	if !ok && codec.IsSealed(c.SecretEncoded) {
		return "", ErrSecretLocked
	}
	return plain, nil
}

// codecOf returns the user's codec, building it once per login. Key
// derivation is expensive.
func (s *Store) codecOf(userID string) codec.SecretCodec {
	s.mu.Lock()
	c, ok := s.codecs[userID]
	s.mu.Unlock()
	if ok {
		return c
	}

	c = s.codecFor(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.codecs[userID]; ok {
		return prev
	}
	if s.codecs == nil {
		s.codecs = make(map[string]codec.SecretCodec)
	}
	s.codecs[userID] = c
	return c
}

// Snapshot returns a copy of the cache and the current generation.
func (s *Store) Snapshot() ([]models.Credential, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cache), s.gen
}

// Reset drops the cache. Calls still in flight will not apply their result.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.owner = ""
	s.cache = nil
	s.codecs = nil
}

// Find looks id up in the cache.
func (s *Store) Find(id string) (models.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.cache[i], true
	}
	return models.Credential{}, false
}

// Filter returns cached credentials whose title or username contains query,
// ignoring case. An empty query matches everything.
func (s *Store) Filter(query string) []models.Credential {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Credential
	for _, c := range s.cache {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Title), q) ||
			strings.Contains(strings.ToLower(c.Username), q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.cache, func(c models.Credential) bool { return c.ID == id })
}

func (s *Store) deletePrompt(id string) string {
	if c, ok := s.Find(id); ok {
		return fmt.Sprintf("Delete %q (%s)?", c.Title, c.Username)
	}
	return fmt.Sprintf("Delete %s?", id)
}

func (s *Store) remoteErr(ctx context.Context, op, userID string, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorUnauthorized):
		return err
	}

	s.logger.Error(ctx, op+" failed", "user_id", userID, "error", err)

	var re *common.RemoteError
	if errors.As(err, &re) {
		return err
	}
	return common.NewRemoteError(op, err)
}
