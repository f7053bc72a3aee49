package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/client/auth"
	"github.com/dmitrijs2005/passkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/passkeeper/internal/client/session"
	"github.com/dmitrijs2005/passkeeper/internal/codec"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/dmitrijs2005/passkeeper/internal/netx"
	"github.com/dmitrijs2005/passkeeper/internal/server/config"
	"github.com/dmitrijs2005/passkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passkeeper/internal/server/services"
	"github.com/dmitrijs2005/passkeeper/internal/server/storagetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// newTestServer runs the real API over an in-memory database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := storagetest.OpenSQLite(t)
	rm := repomanager.NewSQLiteRepositoryManager()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	log := logging.Discard()

	srv := httpapi.NewServer(":0", log,
		services.NewUserService(db, rm, cfg, log),
		services.NewPasswordService(db, rm, log),
		services.NewBackupService(db, rm, cfg, log),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(url string, tokens TokenSource) *HTTPClient {
	c := netx.NewHTTPClient(2*time.Second, 0, logging.Discard())
	return NewHTTPClient(url, c, tokens)
}

func register(t *testing.T, c *HTTPClient, email string) *models.AuthResult {
	t.Helper()
	res, err := c.Register(context.Background(), models.RegisterRequest{Email: email, Password: "secret1", FullName: "Alice"})
	require.NoError(t, err)
	return res
}

func TestHTTPClient_Auth(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(ts.URL, nil)
	ctx := context.Background()

	res := register(t, c, "a@b.co")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a@b.co", res.User.Email)

	_, err := c.Register(ctx, models.RegisterRequest{Email: "A@B.CO", Password: "secret1", FullName: "Other"})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.NotErrorIs(t, err, common.ErrValidation)

	_, err = c.Register(ctx, models.RegisterRequest{Email: "bad", Password: "secret1", FullName: "X"})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	_, err = c.Register(ctx, models.RegisterRequest{Email: "long@b.co", Password: strings.Repeat("p", 80), FullName: "L"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
	assert.NotErrorIs(t, err, common.ErrRemote)

	_, err = c.Login(ctx, models.LoginRequest{Email: "a@b.co", Password: "wrong-pass"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = c.Login(ctx, models.LoginRequest{Email: "nobody@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	got, err := c.Login(ctx, models.LoginRequest{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, got.User.ID)
}

func TestHTTPClient_Passwords(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	res := register(t, newClient(ts.URL, nil), "a@b.co")
	c := newClient(ts.URL, staticToken(res.Token))

	list, err := c.ListPasswords(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	in := &models.Credential{ID: uuid.NewString(), Title: "GitHub", Username: "alice", SecretEncoded: "c2VjcmV0"}
	created, err := c.InsertPassword(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in.ID, created.ID)
	assert.Equal(t, res.User.ID, created.UserID)
	assert.Equal(t, "GitHub", created.Platform)

	again, err := c.InsertPassword(ctx, in)
	require.NoError(t, err, "a retried insert is idempotent")
	assert.Equal(t, created.ID, again.ID)

	list, err = c.ListPasswords(ctx, res.User.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	upd := *created
	upd.Title = "GitHub Work"
	updated, err := c.UpdatePassword(ctx, &upd)
	require.NoError(t, err)
	assert.Equal(t, "GitHub Work", updated.Title)

	require.NoError(t, c.DeletePassword(ctx, created.ID, res.User.ID))
	assert.ErrorIs(t, c.DeletePassword(ctx, created.ID, res.User.ID), common.ErrorNotFound)
	_, err = c.UpdatePassword(ctx, &upd)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = c.InsertPassword(ctx, &models.Credential{ID: uuid.NewString(), Username: "x", SecretEncoded: "y"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestHTTPClient_OtherUsersRows(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	anon := newClient(ts.URL, nil)

	alice := register(t, anon, "alice@b.co")
	bob := register(t, anon, "bob@b.co")

	ac := newClient(ts.URL, staticToken(alice.Token))
	bc := newClient(ts.URL, staticToken(bob.Token))

	rec, err := ac.InsertPassword(ctx, &models.Credential{ID: uuid.NewString(), Title: "GitHub", Username: "alice", SecretEncoded: "x"})
	require.NoError(t, err)

	assert.ErrorIs(t, bc.DeletePassword(ctx, rec.ID, bob.User.ID), common.ErrorNotFound)

	list, err := ac.ListPasswords(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = bc.ListPasswords(ctx, bob.User.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHTTPClient_Unauthorized(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := newClient(ts.URL, nil).ListPasswords(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = newClient(ts.URL, staticToken("garbage")).ListPasswords(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, "session expired, please log in again", common.UserMessage(err))
}

func TestHTTPClient_BackupDisabled(t *testing.T) {
	ts := newTestServer(t)
	res := register(t, newClient(ts.URL, nil), "a@b.co")

	_, err := newClient(ts.URL, staticToken(res.Token)).Backup(context.Background(), res.User.ID)
	assert.ErrorIs(t, err, ErrBackupsUnavailable)
}

func TestHTTPClient_TransportErrors(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := newClient(url, nil).Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrRemote)
	assert.Equal(t, common.ErrRemote.Error(), common.UserMessage(err))
}

func TestHTTPClient_ServerErrorIsRemote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newClient(ts.URL, staticToken("t")).ListPasswords(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrRemote)

	var re *common.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "list passwords", re.Op)
	assert.Contains(t, re.Err.Error(), "500")
}

func TestHTTPClient_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	rc := netx.NewHTTPClient(time.Second, 2, logging.Discard())
	rc.RetryWaitMin, rc.RetryWaitMax = time.Millisecond, time.Millisecond

	list, err := NewHTTPClient(ts.URL+"/", rc, nil).ListPasswords(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int32(2), calls.Load())
}

// TestEndToEnd drives the client services against the real API.
func TestEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	var svc *auth.Service
	tokens := TokenFunc(func() string { return svc.Token() })
	client := newClient(ts.URL, tokens)

	svc = auth.NewService(client, session.NewFileStore(t.TempDir()+"/session.json"), logging.Discard())
	store := credentials.NewStore(client, func(userID string) codec.SecretCodec {
		return codec.ForUser("vault", userID)
	}, logging.Discard())
	svc.OnLogout(store.Reset)

	sess, err := svc.Register(ctx, "User1@Example.com", "secret1", "secret1", "User One")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "user1@example.com", "secret1", "secret1", "Again")
	assert.ErrorIs(t, err, common.ErrConflict)

	c, err := store.Create(ctx, sess.ID, "GitHub", "a@b.com", "Secret1!")
	require.NoError(t, err)

	list, err := store.List(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, "Secret1!", store.Reveal(list[0]))

	_, err = store.Update(ctx, c.ID, sess.ID, "GitHub", "a@b.com", "Secret2!")
	require.NoError(t, err)
	got, ok := store.Find(c.ID)
	require.True(t, ok)
	assert.Equal(t, "Secret2!", store.Reveal(got))

	require.NoError(t, store.Delete(ctx, c.ID, sess.ID, credentials.ConfirmFunc(func(string) bool { return true })))
	list, err = store.List(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.Logout(ctx))
	_, err = store.List(ctx, sess.ID)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
