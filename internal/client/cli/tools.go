package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/passkeeper/internal/generator"
	"github.com/dmitrijs2005/passkeeper/internal/platforms"
	"github.com/dmitrijs2005/passkeeper/internal/strength"
	"github.com/dmitrijs2005/passkeeper/internal/suggest"
)

// Generate prints a random password. The length is clamped to the range the
// CLI offers.
func (a *App) Generate(_ context.Context, length string) error {
	n := generator.DefaultLength
	if length != "" {
		v, err := strconv.Atoi(length)
		if err != nil {
			return usageError("generate [length]")
		}
		n = generator.ClampLength(v)
	}

	pw, err := generator.Generate(n)
	if err != nil {
		return err
	}

	a.println(pw)
	a.printf("Strength: %s\n", meter(strength.Score(pw)))
	return nil
}

// Suggest builds a memorable password from a few personal tokens.
func (a *App) Suggest(ctx context.Context) error {
	var req suggest.Request
	var err error

	if req.Name, err = a.prompt("Your name"); err != nil {
		return err
	}
	if req.Favorite, err = a.prompt("A favorite word"); err != nil {
		return err
	}
	if req.Number, err = a.prompt("A number you remember"); err != nil {
		return err
	}
	if req.Platform, err = a.prompt("Platform (optional)"); err != nil {
		return err
	}

	res, err := a.suggester.Suggest(ctx, req)
	if err != nil {
		return err
	}

	a.println(res.Password)
	a.printf("Strength: %s\n", meter(strength.Score(res.Password)))
	if !res.Succeeded {
		a.println(res.Message)
	}
	return nil
}

// Strength rates a password typed without echo.
func (a *App) Strength(_ context.Context) error {
	pw, err := a.secret("Password to rate")
	if err != nil {
		return err
	}
	a.printf("Strength: %s\n", meter(strength.Score(pw)))
	return nil
}

func (a *App) Platforms(_ context.Context) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i, p := range platforms.All() {
		fmt.Fprintf(tw, "%2d\t%s\t%s\n", i+1, p.Name, p.URL)
	}
	return tw.Flush()
}

// Backup asks the backend for a snapshot of the user's passwords. With a
// path, the snapshot is also downloaded there.
func (a *App) Backup(ctx context.Context, path string) error {
	s, err := a.session()
	if err != nil {
		return err
	}

	info, err := a.backups.Backup(ctx, s.ID)
	if err != nil {
		return a.expired(ctx, err)
	}

	a.printf("Backed up %d password(s) to %s\n", info.Count, info.Key)
	if path == "" {
		if info.DownloadURL != "" {
			a.printf("Download link (15 minutes): %s\n", info.DownloadURL)
		}
		return nil
	}

	if info.DownloadURL == "" || a.download == nil {
		a.println("No download link was issued; nothing saved locally.")
		return nil
	}
	if err := a.saveDownload(ctx, info.DownloadURL, path); err != nil {
		a.logger.Error(ctx, "backup download failed", "key", info.Key, "error", err)
		return fmt.Errorf("could not save the backup: %w", err)
	}

	a.printf("Saved to %s\n", path)
	return nil
}
