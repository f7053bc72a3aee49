package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_url":       "http://www.example:9000",
		"session_store":    "sqlite",
		"vault_passphrase": "pp",
		"request_timeout":  "15s",
		"max_retries":      0,
		"verbose":          true,
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{GeminiModel: "keep-me", MaxRetries: 3}
		parseJson(cfg)

		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
		assert.Equal(t, "sqlite", cfg.SessionStore)
		assert.Equal(t, "pp", cfg.VaultPassphrase)
		assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 0, cfg.MaxRetries, "explicit zero overrides")
		assert.True(t, cfg.Verbose)
		assert.Equal(t, "keep-me", cfg.GeminiModel)
	})

	t.Run("no config flag leaves values alone", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ServerURL: "http://defaults:1234", RequestTimeout: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.ServerURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
