// Package models defines the records shared by the CLI, the embedded backend
// and the HTTP API: users, credentials, sessions and auth requests.
//
// JSON tags follow the column names of the remote tables (snake_case) so the
// same values travel unchanged between the store and the wire.
package models
