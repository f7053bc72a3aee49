package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in the package doc are looked at; -v takes no value.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgsWithBools(os.Args[1:],
		[]string{"-a", "-l", "-f", "-m", "-k", "-g", "-M", "-t", "-r"},
		[]string{"-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the server")
	fs.StringVar(&cfg.LocalDatabase, "l", cfg.LocalDatabase, "local database file (no server)")
	fs.StringVar(&cfg.SessionPath, "f", cfg.SessionPath, "session file")
	fs.StringVar(&cfg.SessionStore, "m", cfg.SessionStore, "session store: file or sqlite")
	fs.StringVar(&cfg.VaultPassphrase, "k", cfg.VaultPassphrase, "vault passphrase")
	fs.StringVar(&cfg.GeminiAPIKey, "g", cfg.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&cfg.GeminiModel, "M", cfg.GeminiModel, "Gemini model")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.MaxRetries, "r", cfg.MaxRetries, "maximum retries per request")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
