package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	smodels "github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/hashicorp/go-retryablehttp"
)

const apiPrefix = "/api/v1"

// HTTPClient talks to the server's JSON API. Passwords and backups are
// scoped by the bearer token; the userID arguments are not sent.
type HTTPClient struct {
	baseURL string
	client  *retryablehttp.Client
	tokens  TokenSource
}

func NewHTTPClient(baseURL string, c *retryablehttp.Client, tokens TokenSource) *HTTPClient {
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), client: c, tokens: tokens}
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListPasswords(ctx context.Context, _ string) ([]*models.Credential, error) {
	var out []*models.Credential
	if err := c.do(ctx, "list passwords", http.MethodGet, "/passwords", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) InsertPassword(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	var out models.Credential
	if err := c.do(ctx, "create password", http.MethodPost, "/passwords", cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	var out models.Credential
	path := "/passwords/" + url.PathEscape(cred.ID)
	if err := c.do(ctx, "update password", http.MethodPut, path, cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeletePassword(ctx context.Context, id, _ string) error {
	return c.do(ctx, "delete password", http.MethodDelete, "/passwords/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) Backup(ctx context.Context, _ string) (*smodels.BackupInfo, error) {
	var out smodels.BackupInfo
	if err := c.do(ctx, "backup", http.MethodPost, "/backups", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Client returns the underlying retrying client, e.g. to fetch a presigned
// backup URL.
func (c *HTTPClient) Client() *retryablehttp.Client {
	return c.client
}

func (c *HTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return common.NewRemoteError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errorFor(op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.NewRemoteError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// errorFor maps an error response back to the sentinel the server started
// from.
func errorFor(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body models.ErrorResponse
	_ = json.NewDecoder(bytes.NewReader(raw)).Decode(&body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if body.Reason != "" {
			return common.NewValidationError(body.Field, body.Reason)
		}
		return common.NewValidationError("", body.Error)
	case http.StatusUnauthorized:
		if op == "login" {
			return common.ErrInvalidCredentials
		}
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrConflict
	case http.StatusServiceUnavailable:
		if op == "backup" {
			return ErrBackupsUnavailable
		}
	}

	return common.NewRemoteError(op, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(raw))))
}
