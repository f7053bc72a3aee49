package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/passkeeper/internal/client/auth"
	"github.com/dmitrijs2005/passkeeper/internal/client/config"
	"github.com/dmitrijs2005/passkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/passkeeper/internal/client/remote"
	"github.com/dmitrijs2005/passkeeper/internal/client/session"
	"github.com/dmitrijs2005/passkeeper/internal/codec"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/filex"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/dmitrijs2005/passkeeper/internal/netx"
	smodels "github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/dmitrijs2005/passkeeper/internal/suggest"
)

// authService is the part of auth.Service the commands use.
type authService interface {
	Restore(ctx context.Context) (*models.Session, error)
	Register(ctx context.Context, email, password, confirm, fullName string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	Current() *models.Session
}

// credentialStore is the part of credentials.Store the commands use.
type credentialStore interface {
	List(ctx context.Context, userID string) ([]models.Credential, error)
	Create(ctx context.Context, userID, title, username, plaintext string) (*models.Credential, error)
	Update(ctx context.Context, id, userID, title, username, plaintext string) (*models.Credential, error)
	Delete(ctx context.Context, id, userID string, confirm credentials.Confirmer) error
	Reveal(c models.Credential) string
	KeepSecret(c models.Credential) (string, error)
	Find(id string) (models.Credential, bool)
	Filter(query string) []models.Credential
}

type backupService interface {
	Backup(ctx context.Context, userID string) (*smodels.BackupInfo, error)
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	auth      authService
	store     credentialStore
	backups   backupService
	suggester suggest.Suggester
	reader    *bufio.Reader
	out       io.Writer

	// download fetches a presigned URL; nil when the backend has none.
	download func(ctx context.Context, url string, w io.Writer) error
	closers  []func() error
}

// NewApp wires the backend, session store and services named by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewText(os.Stderr, level)

	a := &App{
		config: c,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	var svc *auth.Service
	tokens := remote.TokenFunc(func() string { return svc.Token() })

	var backend remote.Backend
	if c.Embedded() {
		e, err := remote.NewEmbedded(ctx, c.LocalDatabase, logger)
		if err != nil {
			return nil, err
		}
		backend = e
	} else {
		hc := remote.NewHTTPClient(c.ServerURL, netx.NewHTTPClient(c.RequestTimeout, c.MaxRetries, logger), tokens)
		a.download = func(ctx context.Context, url string, w io.Writer) error {
			return netx.DownloadPresigned(ctx, hc.Client(), url, w)
		}
		backend = hc
	}
	a.closers = append(a.closers, backend.Close)

	store, err := openSessionStore(ctx, c)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	if cl, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, cl.Close)
	}

	svc = auth.NewService(backend, store, logger.With("module", "auth"))
	creds := credentials.NewStore(backend, func(userID string) codec.SecretCodec {
		return codec.ForUser(c.VaultPassphrase, userID)
	}, logger.With("module", "credentials"))
	svc.OnLogout(creds.Reset)

	a.auth = svc
	a.store = creds
	a.backups = backend
	a.suggester = newSuggester(ctx, c, logger)
	return a, nil
}

func openSessionStore(ctx context.Context, c *config.Config) (session.Store, error) {
	switch c.SessionStore {
	case config.SessionStoreSQLite:
		return session.OpenSQLiteStore(ctx, c.SessionPath)
	case config.SessionStoreFile, "":
		return session.NewFileStore(c.SessionPath), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", c.SessionStore)
	}
}

func newSuggester(ctx context.Context, c *config.Config, logger logging.Logger) suggest.Suggester {
	if c.GeminiAPIKey == "" {
		return suggest.NewLocal()
	}
	g, err := suggest.NewGeminiCompleter(ctx, c.GeminiAPIKey, c.GeminiModel)
	if err != nil {
		logger.Warn(ctx, "gemini unavailable, using local suggestions", "error", err)
		return suggest.NewLocal()
	}
	return suggest.New(g, logger.With("module", "suggest"))
}

// Run restores the saved session and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if _, err := a.auth.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
	}

	a.println("Welcome to PassKeeper (type 'help' for commands)")
	if s := a.auth.Current(); s != nil {
		a.printf("Signed in as %s\n", s.Email)
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.auth.Current() != nil
}

func (a *App) status() string {
	if s := a.auth.Current(); s != nil {
		return s.Email
	}
	return ""
}

// session returns the signed-in user or an error telling the user to log in.
func (a *App) session() (*models.Session, error) {
	s := a.auth.Current()
	if s == nil {
		return nil, errNotLoggedIn
	}
	return s, nil
}

// expired signs the user out when the backend rejects the token.
func (a *App) expired(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorUnauthorized) {
		_ = a.auth.Logout(ctx)
	}
	return err
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) prompt(text string) (string, error) {
	return GetSimpleText(a.reader, text, a.out)
}

func (a *App) secret(text string) (string, error) {
	return GetPassword(a.reader, text, a.out)
}

func (a *App) saveDownload(ctx context.Context, url, path string) error {
	var buf bytes.Buffer
	if err := a.download(ctx, url, &buf); err != nil {
		return err
	}
	return filex.WriteFileAtomic(path, buf.Bytes(), 0o600)
}
