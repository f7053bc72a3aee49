package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, "", c.LocalDatabase)
	assert.Equal(t, DefaultSessionPath(), c.SessionPath)
	assert.Equal(t, SessionStoreFile, c.SessionStore)
	assert.Equal(t, "env-key", c.GeminiAPIKey)
	assert.Equal(t, "gemini-1.5-flash", c.GeminiModel)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3, c.MaxRetries)
	assert.False(t, c.Verbose)
	assert.False(t, c.Embedded())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cli"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":      "http://json:1",
		"local_database":  "local.db",
		"request_timeout": "30s",
	})
	os.Args = []string{"cli", "-c", path, "-a", "http://flag:2", "-v"}

	cfg := LoadConfig()

	assert.Equal(t, "http://flag:2", cfg.ServerURL)
	assert.Equal(t, "local.db", cfg.LocalDatabase)
	assert.True(t, cfg.Embedded())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 3, cfg.MaxRetries, "keys missing from the file keep defaults")
}
