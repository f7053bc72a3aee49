// Package migrations embeds the schema of the CLI's local SQLite state.
package migrations

import "embed"

//go:embed sqlite/*.sql
var Migrations embed.FS
