package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/suggest"
)

const (
	SessionStoreFile   = "file"
	SessionStoreSQLite = "sqlite"
)

// Config holds runtime settings for the PassKeeper CLI.
type Config struct {
	ServerURL       string
	LocalDatabase   string
	SessionPath     string
	SessionStore    string
	VaultPassphrase string
	GeminiAPIKey    string
	GeminiModel     string
	RequestTimeout  time.Duration
	MaxRetries      int
	Verbose         bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.LocalDatabase = ""
	c.SessionPath = DefaultSessionPath()
	c.SessionStore = SessionStoreFile
	c.VaultPassphrase = ""
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.GeminiModel = suggest.DefaultModel
	c.RequestTimeout = 10 * time.Second
	c.MaxRetries = 3
	c.Verbose = false
}

// Embedded reports whether the CLI should run against a local database
// instead of a server.
func (c *Config) Embedded() bool {
	return c.LocalDatabase != ""
}

// DefaultSessionPath places the session file in the user config directory,
// or in the working directory when that is unknown.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".passkeeper-session.json"
	}
	return filepath.Join(dir, "passkeeper", "session.json")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
