// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the PassKeeper server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - DatabaseDSN: postgres:// DSN (pgx), or a SQLite file path.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: bearer token lifetime.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings. An empty
//     bucket disables backups.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	S3RootUser            string
	S3RootPassword        string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "passkeeper.db"
	c.EndpointAddr = ":8080"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// BackupsEnabled reports whether a bucket is configured.
func (c *Config) BackupsEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
