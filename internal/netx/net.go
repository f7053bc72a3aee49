// Package netx builds the HTTP client used by the CLI and moves snapshot
// bodies over presigned URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
)

// NewHTTPClient returns a client that retries connection errors and 5xx
// responses up to retries times with exponential backoff. The last response
// is handed back as is once retries run out, so callers can read its status.
func NewHTTPClient(timeout time.Duration, retries int, logger logging.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.HTTPClient.Timeout = timeout
	c.RetryMax = retries
	c.RetryWaitMin = 100 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.ErrorHandler = lastResponse
	c.Logger = leveledLogger{l: logger}
	return c
}

func lastResponse(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", attempts, err)
}

// leveledLogger routes retryablehttp's own logging into our Logger. Its
// per-request lines are debug noise; retries are worth a warning.
type leveledLogger struct {
	l logging.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) {
	l.l.Error(context.Background(), msg, kv...)
}

func (l leveledLogger) Info(msg string, kv ...interface{}) {
	l.l.Debug(context.Background(), msg, kv...)
}

func (l leveledLogger) Debug(msg string, kv ...interface{}) {
	l.l.Debug(context.Background(), msg, kv...)
}

func (l leveledLogger) Warn(msg string, kv ...interface{}) {
	l.l.Warn(context.Background(), msg, kv...)
}

// DownloadPresigned fetches url and copies the body into w.
func DownloadPresigned(ctx context.Context, c *retryablehttp.Client, url string, w io.Writer) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
