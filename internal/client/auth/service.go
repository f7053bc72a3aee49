// Package auth keeps track of the signed-in user on the client.
//
// The Service validates input locally before any network call, talks to a
// Remote for register and login, and persists the resulting session through
// a session.Store so it survives restarts.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/passkeeper/internal/client/session"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
)

// Remote is the account backend.
type Remote interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
}

type Service struct {
	remote Remote
	store  session.Store
	logger logging.Logger

	mu      sync.RWMutex
	current *models.Session

	onLogout []func()
}

func NewService(remote Remote, store session.Store, logger logging.Logger) *Service {
	return &Service{remote: remote, store: store, logger: logger}
}

// OnLogout registers fn to run after every logout, e.g. to drop cached
// credentials.
func (s *Service) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Restore loads the persisted session, if any. A corrupt session is removed
// and the user starts signed out.
func (s *Service) Restore(ctx context.Context) (*models.Session, error) {
	sess, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrCorrupt) {
			s.logger.Warn(ctx, "dropping corrupt session", "error", err)
			if cerr := s.store.Clear(ctx); cerr != nil {
				s.logger.Error(ctx, "clear session failed", "error", cerr)
			}
			return nil, nil
		}
		return nil, err
	}

	s.set(sess)
	return s.Current(), nil
}

func (s *Service) Register(ctx context.Context, email, password, confirm, fullName string) (*models.Session, error) {
	req := models.RegisterRequest{
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
		FullName:        fullName,
	}.Normalize()

	if err := req.Validate(true); err != nil {
		return nil, err
	}

	res, err := s.remote.Register(ctx, req)
	if err != nil {
		return nil, s.remoteErr(ctx, "register", err)
	}

	return s.signIn(ctx, res), nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	req := models.LoginRequest{Email: email, Password: password}.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := s.remote.Login(ctx, req)
	if err != nil {
		// the backend may report a missing user and a bad password
		// differently; the user sees one message for both
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnauthorized) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.remoteErr(ctx, "login", err)
	}

	return s.signIn(ctx, res), nil
}

// Logout forgets the session in memory and in the store. The in-memory
// session is dropped even if the store cannot be cleared.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	hooks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error(ctx, "clear session failed", "error", err)
		return err
	}
	return nil
}

// Current returns a copy of the signed-in session or nil.
func (s *Service) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Token returns the bearer token of the current session or "".
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Service) signIn(ctx context.Context, res *models.AuthResult) *models.Session {
	sess := res.Session()
	s.set(sess)

	if err := s.store.Save(ctx, sess); err != nil {
		// still signed in for this run
		s.logger.Warn(ctx, "persist session failed", "error", err)
	}

	s.logger.Info(ctx, "signed in", "user_id", sess.ID)
	return s.Current()
}

func (s *Service) set(sess *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
}

func (s *Service) remoteErr(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrInvalidCredentials):
		return err
	}

	s.logger.Error(ctx, op+" failed", "error", err)

	var re *common.RemoteError
	if errors.As(err, &re) {
		return err
	}
	return common.NewRemoteError(op, err)
}
