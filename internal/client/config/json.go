package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/passkeeper/internal/flagx"
	"github.com/dmitrijs2005/passkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell a missing key apart from a zero value.
type JsonConfig struct {
	ServerURL       *string         `json:"server_url"`
	LocalDatabase   *string         `json:"local_database"`
	SessionPath     *string         `json:"session_path"`
	SessionStore    *string         `json:"session_store"`
	VaultPassphrase *string         `json:"vault_passphrase"`
	GeminiAPIKey    *string         `json:"gemini_api_key"`
	GeminiModel     *string         `json:"gemini_model"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	MaxRetries      *int            `json:"max_retries"`
	Verbose         *bool           `json:"verbose"`
}

// parseJson overlays cfg with the keys present in the file named by -c or
// -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.LocalDatabase, jc.LocalDatabase)
	setString(&cfg.SessionPath, jc.SessionPath)
	setString(&cfg.SessionStore, jc.SessionStore)
	setString(&cfg.VaultPassphrase, jc.VaultPassphrase)
	setString(&cfg.GeminiAPIKey, jc.GeminiAPIKey)
	setString(&cfg.GeminiModel, jc.GeminiModel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
