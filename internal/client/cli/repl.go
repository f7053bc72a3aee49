package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/passkeeper/internal/client/remote"
	"github.com/dmitrijs2005/passkeeper/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var (
	errNotLoggedIn = errors.New("please log in first")
	errUsage       = errors.New("usage")
)

// usageError carries the usage line of a command called with bad arguments.
type usageError string

func (u usageError) Error() string { return "Usage: " + string(u) }

func (u usageError) Is(target error) bool { return target == errUsage }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, query string) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Generate(ctx context.Context, length string) error
	Suggest(ctx context.Context) error
	Strength(ctx context.Context) error
	Platforms(ctx context.Context) error
	Backup(ctx context.Context, path string) error
}

const (
	helpLoggedOut = "Available commands: register, login, generate [length], suggest, strength, platforms, exit"
	helpLoggedIn  = "Available commands: (l)ist [filter], show <id>, add, edit <id>, delete <id>, " +
		"generate [length], suggest, strength, platforms, backup [file], logout, exit"
)

// runREPL starts a read–eval–print loop for the PassKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The rest of the line is the argument. Errors
// returned by commands are printed through describe; details stay in the log.
// The loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if s := statusFn(); s != "" {
			printlnFn(fmt.Sprintf("pk (%s)> ", s))
		} else {
			printlnFn("pk> ")
		}

		line, err := readLine(reader)
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "l", "list":
			err = a.List(ctx, arg)
		case "show":
			err = a.Show(ctx, arg)
		case "add":
			err = a.Add(ctx)
		case "edit":
			err = a.Edit(ctx, arg)
		case "delete":
			err = a.Delete(ctx, arg)
		case "generate":
			err = a.Generate(ctx, arg)
		case "suggest":
			err = a.Suggest(ctx)
		case "strength":
			err = a.Strength(ctx)
		case "platforms":
			err = a.Platforms(ctx)
		case "backup":
			err = a.Backup(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describe(err))
		}
	}
}

// describe turns a command error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, errNotLoggedIn), errors.Is(err, errUsage):
		return err.Error()
	case errors.Is(err, credentials.ErrNotConfirmed):
		return "Cancelled."
	case errors.Is(err, credentials.ErrSecretLocked):
		return "Error: " + err.Error() + "; nothing changed."
	case errors.Is(err, credentials.ErrStale):
		return "Signed out while the request was running; result discarded."
	case errors.Is(err, remote.ErrBackupsUnavailable):
		return "Backups are not available on this server."
	}
	return "Error: " + common.UserMessage(err)
}
