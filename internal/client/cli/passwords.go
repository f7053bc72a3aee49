package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/generator"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/dmitrijs2005/passkeeper/internal/platforms"
	"github.com/dmitrijs2005/passkeeper/internal/strength"
)

// shortID is how many id characters list prints; show, edit and delete accept
// any unique prefix.
const shortID = 8

// List refreshes the credentials and prints them, newest first. A non-empty
// query keeps only titles or usernames containing it.
func (a *App) List(ctx context.Context, query string) error {
	s, err := a.session()
	if err != nil {
		return err
	}

	list, err := a.store.List(ctx, s.ID)
	if err != nil {
		return a.expired(ctx, err)
	}
	if query != "" {
		list = a.store.Filter(query)
	}

	if len(list) == 0 {
		a.println("No passwords saved.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tUSERNAME\tUPDATED")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", short(c.ID), c.Title, c.Username, c.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, id string) error {
	if id == "" {
		return usageError("show <id>")
	}
	c, err := a.resolve(ctx, id)
	if err != nil {
		return err
	}

	secret := a.store.Reveal(c)
	r := strength.Score(secret)

	a.printf("Title:    %s\n", c.Title)
	if p, ok := platforms.Lookup(c.Platform); ok {
		a.printf("Site:     %s\n", p.URL)
	}
	a.printf("Username: %s\n", c.Username)
	a.printf("Password: %s\n", secret)
	a.printf("Strength: %s\n", meter(r))
	a.printf("Created:  %s\n", c.CreatedAt.Local().Format(time.DateTime))
	a.printf("Updated:  %s\n", c.UpdatedAt.Local().Format(time.DateTime))
	a.printf("ID:       %s\n", c.ID)
	return nil
}

// Add prompts for a new credential. The title may be a number from the
// platform catalog; an empty password is replaced by a generated one.
func (a *App) Add(ctx context.Context) error {
	s, err := a.session()
	if err != nil {
		return err
	}

	title, err := a.prompt("Title (or a number from 'platforms')")
	if err != nil {
		return err
	}
	title = pickPlatform(title)

	username, err := a.prompt("Username or email")
	if err != nil {
		return err
	}
	secret, err := a.secret("Password (empty to generate)")
	if err != nil {
		return err
	}
	if secret == "" {
		if secret, err = generator.Generate(generator.DefaultLength); err != nil {
			return err
		}
		a.printf("Generated password: %s\n", secret)
	}

	c, err := a.store.Create(ctx, s.ID, title, username, secret)
	if err != nil {
		return a.expired(ctx, err)
	}

	a.printf("Saved %q (%s), strength %s\n", c.Title, short(c.ID), meter(strength.Score(secret)))
	return nil
}

// Edit prompts for new values; an empty answer keeps the current one.
func (a *App) Edit(ctx context.Context, id string) error {
	if id == "" {
		return usageError("edit <id>")
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	cur, err := a.resolve(ctx, id)
	if err != nil {
		return err
	}

	title, err := a.prompt(fmt.Sprintf("Title [%s]", cur.Title))
	if err != nil {
		return err
	}
	username, err := a.prompt(fmt.Sprintf("Username [%s]", cur.Username))
	if err != nil {
		return err
	}
	secret, err := a.secret("Password (empty to keep)")
	if err != nil {
		return err
	}

	if title == "" {
		title = cur.Title
	} else {
		title = pickPlatform(title)
	}
	if username == "" {
		username = cur.Username
	}
	if secret == "" {
		if secret, err = a.keepSecret(cur); err != nil {
			return err
		}
	}

	c, err := a.store.Update(ctx, cur.ID, s.ID, title, username, secret)
	if err != nil {
		return a.expired(ctx, err)
	}

	a.printf("Updated %q\n", c.Title)
	return nil
}

// keepSecret returns the current password for an edit that leaves it
// unchanged. When the stored value is sealed under another vault passphrase
// the user must type a new one.
func (a *App) keepSecret(c models.Credential) (string, error) {
	secret, err := a.store.KeepSecret(c)
	if !errors.Is(err, credentials.ErrSecretLocked) {
		return secret, err
	}

	a.println("The stored password cannot be decrypted with this vault passphrase.")
	secret, err = a.secret("New password")
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", credentials.ErrSecretLocked
	}
	return secret, nil
}

// Delete asks for confirmation before removing a credential.
func (a *App) Delete(ctx context.Context, id string) error {
	if id == "" {
		return usageError("delete <id>")
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	c, err := a.resolve(ctx, id)
	if err != nil {
		return err
	}

	confirm := credentials.ConfirmFunc(func(prompt string) bool {
		return GetConfirmation(a.reader, prompt, a.out)
	})
	if err := a.store.Delete(ctx, c.ID, s.ID, confirm); err != nil {
		return a.expired(ctx, err)
	}

	a.printf("Deleted %q\n", c.Title)
	return nil
}

// resolve finds a cached credential by id or unique id prefix, loading the
// list first when the cache has never been filled.
func (a *App) resolve(ctx context.Context, id string) (models.Credential, error) {
	s, err := a.session()
	if err != nil {
		return models.Credential{}, err
	}

	if c, ok := a.store.Find(id); ok {
		return c, nil
	}

	all := a.store.Filter("")
	if len(all) == 0 {
		if all, err = a.store.List(ctx, s.ID); err != nil {
			return models.Credential{}, a.expired(ctx, err)
		}
	}

	var found []models.Credential
	for _, c := range all {
		if strings.HasPrefix(c.ID, id) {
			found = append(found, c)
		}
	}

	switch len(found) {
	case 0:
		return models.Credential{}, common.ErrorNotFound
	case 1:
		return found[0], nil
	default:
		return models.Credential{}, common.NewValidationError("id", "matches more than one password")
	}
}

// pickPlatform maps a catalog number to the platform name. Anything else is
// returned unchanged.
func pickPlatform(title string) string {
	n, err := strconv.Atoi(strings.TrimSpace(title))
	if err != nil {
		return title
	}
	all := platforms.All()
	if n < 1 || n > len(all) {
		return title
	}
	return all[n-1].Name
}

func short(id string) string {
	if len(id) <= shortID {
		return id
	}
	return id[:shortID]
}

// meter renders a strength result as a five-segment bar with its label.
func meter(r strength.Result) string {
	bar := strings.Repeat("●", r.Dots()) + strings.Repeat("○", 5-r.Dots())
	if r.Label == "" {
		return bar
	}
	return fmt.Sprintf("%s %s (%d/100)", bar, r.Label, r.Score)
}
