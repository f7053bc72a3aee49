// Package httpapi exposes the user and password services as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	smodels "github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

// UserService authenticates callers.
type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Authenticate(token string) (string, error)
}

// PasswordService stores credentials for the authenticated user.
type PasswordService interface {
	List(ctx context.Context, userID string) ([]*models.Credential, error)
	Create(ctx context.Context, userID string, c *models.Credential) (*models.Credential, error)
	Update(ctx context.Context, userID string, c *models.Credential) (*models.Credential, error)
	Delete(ctx context.Context, userID, id string) error
}

// BackupService uploads snapshots of the user's credentials.
type BackupService interface {
	Snapshot(ctx context.Context, userID string) (*smodels.BackupInfo, error)
}

type Server struct {
	address   string
	users     UserService
	passwords PasswordService
	backups   BackupService
	metrics   *Metrics
	logger    logging.Logger
}

func NewServer(addr string, l logging.Logger, us UserService, ps PasswordService, bs BackupService) *Server {
	return &Server{
		address:   addr,
		logger:    l.With("module", "http_server"),
		users:     us,
		passwords: ps,
		backups:   bs,
		metrics:   NewMetrics(),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		// Public endpoints
		api.Post("/auth/register", s.register)
		api.Post("/auth/login", s.login)

		// Protected endpoints
		api.Group(func(auth chi.Router) {
			auth.Use(s.authenticate)
			auth.Get("/passwords", s.listPasswords)
			auth.Post("/passwords", s.createPassword)
			auth.Put("/passwords/{id}", s.updatePassword)
			auth.Delete("/passwords/{id}", s.deletePassword)
			auth.Post("/backups", s.createBackup)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
