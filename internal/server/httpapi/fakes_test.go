package httpapi

import (
	"context"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	smodels "github.com/dmitrijs2005/passkeeper/internal/server/models"
)

type fakeUsers struct {
	gotRegister models.RegisterRequest
	gotLogin    models.LoginRequest

	res *models.AuthResult
	err error
}

func (f *fakeUsers) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	f.gotRegister = req
	return f.res, f.err
}

func (f *fakeUsers) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	f.gotLogin = req
	return f.res, f.err
}

// Authenticate accepts the token "good" as user "u1".
func (f *fakeUsers) Authenticate(token string) (string, error) {
	if token == "good" {
		return "u1", nil
	}
	return "", common.ErrInvalidToken
}

type fakePasswords struct {
	gotUserID string
	gotCred   *models.Credential
	gotID     string

	list []*models.Credential
	out  *models.Credential
	err  error
}

func (f *fakePasswords) List(ctx context.Context, userID string) ([]*models.Credential, error) {
	f.gotUserID = userID
	return f.list, f.err
}

func (f *fakePasswords) Create(ctx context.Context, userID string, c *models.Credential) (*models.Credential, error) {
	f.gotUserID, f.gotCred = userID, c
	return f.out, f.err
}

func (f *fakePasswords) Update(ctx context.Context, userID string, c *models.Credential) (*models.Credential, error) {
	f.gotUserID, f.gotCred = userID, c
	return f.out, f.err
}

func (f *fakePasswords) Delete(ctx context.Context, userID, id string) error {
	f.gotUserID, f.gotID = userID, id
	return f.err
}

type fakeBackups struct {
	gotUserID string
	out       *smodels.BackupInfo
	err       error
}

func (f *fakeBackups) Snapshot(ctx context.Context, userID string) (*smodels.BackupInfo, error) {
	f.gotUserID = userID
	return f.out, f.err
}
