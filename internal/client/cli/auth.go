package cli

import (
	"context"
	"errors"
)

// Register prompts for the account details and creates the account. The user
// is signed in on success.
func (a *App) Register(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	fullName, err := a.prompt("Enter full name")
	if err != nil {
		return err
	}
	password, err := a.secret("Enter password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Confirm password")
	if err != nil {
		return err
	}

	s, err := a.auth.Register(ctx, email, password, confirm, fullName)
	if err != nil {
		return err
	}

	a.printf("Welcome, %s!\n", s.FullName)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	if s := a.auth.Current(); s != nil {
		a.printf("Already signed in as %s; log out first.\n", s.Email)
		return nil
	}

	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	password, err := a.secret("Enter password")
	if err != nil {
		return err
	}

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.printf("Signed in as %s\n", s.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if err := a.auth.Logout(ctx); err != nil {
		// the session is gone from memory either way
		a.logger.Warn(ctx, "logout left a stored session behind", "error", err)
		return errors.Join(errors.New("could not remove the saved session"), err)
	}
	a.println("Signed out.")
	return nil
}
