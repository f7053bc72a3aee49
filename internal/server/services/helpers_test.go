package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/server/config"
	"github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/passkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/passkeeper/internal/server/storagetest"
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
		S3Region:              "us-east-1",
		S3RootUser:            "minioadmin",
		S3RootPassword:        "minioadmin",
		S3BaseEndpoint:        "http://127.0.0.1:9000",
		S3Bucket:              "passkeeper",
	}
}

type env struct {
	db  *sql.DB
	rm  repomanager.RepositoryManager
	cfg *config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return &env{
		db:  storagetest.OpenSQLite(t),
		rm:  repomanager.NewSQLiteRepositoryManager(),
		cfg: testConfig(),
	}
}

func (e *env) users() *UserService {
	return NewUserService(e.db, e.rm, e.cfg, logging.Discard())
}

func (e *env) passwords() *PasswordService {
	return NewPasswordService(e.db, e.rm, logging.Discard())
}

// addUser inserts a user row directly and returns its id.
func (e *env) addUser(t *testing.T, id, email, hash string) string {
	t.Helper()
	_, err := e.rm.Users(e.db).Create(context.Background(), &models.User{
		ID: id, Email: email, PasswordHash: hash, FullName: "Test", CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("addUser: %v", err)
	}
	return id
}

// failingUsersManager serves a users repository whose calls all fail.
type failingUsersManager struct {
	repomanager.RepositoryManager
	err error
}

func (m *failingUsersManager) Users(db dbx.DBTX) usersrepo.Repository {
	return &failingUsersRepo{err: m.err}
}

type failingUsersRepo struct{ err error }

func (f *failingUsersRepo) Create(context.Context, *models.User) (*models.User, error) {
	return nil, f.err
}
func (f *failingUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, f.err
}
func (f *failingUsersRepo) UpdatePasswordHash(context.Context, string, string) error {
	return f.err
}
