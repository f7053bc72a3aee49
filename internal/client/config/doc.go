// Package config loads runtime configuration for the PassKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults). GEMINI_API_KEY is read
//     from the environment here.
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the PassKeeper server
//	-l string   local SQLite database; when set, no server is used
//	-f string   session file (JSON, or SQLite database with -m sqlite)
//	-m string   session store: file or sqlite
//	-k string   vault passphrase; enables sealed secrets
//	-g string   Gemini API key
//	-M string   Gemini model
//	-t int      request timeout (seconds)
//	-r int      maximum retries per request
//	-v          verbose logging
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "local_database": "",
//	  "session_path": "/home/me/.config/passkeeper/session.json",
//	  "session_store": "file",
//	  "vault_passphrase": "",
//	  "gemini_api_key": "",
//	  "gemini_model": "gemini-1.5-flash",
//	  "request_timeout": "10s",
//	  "max_retries": 3,
//	  "verbose": false
//	}
//
// Keys missing from the file keep their default.
package config
