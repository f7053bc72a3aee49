// Package cli provides the interactive PassKeeper command-line client.
//
// NewApp wires configuration, the record store backend (a server over HTTP,
// or a local database when one is configured), the session store and the
// client services. App.Run restores the previous session and starts the
// REPL, which blocks until the user exits.
//
// Commands:
//   - register / login / logout
//   - list [filter], show <id>, add, edit <id>, delete <id>
//   - generate [length], suggest, strength, platforms
//   - backup [file]
//
// Errors are printed through common.UserMessage; backend details only go to
// the log (stderr, -v for debug output).
package cli
