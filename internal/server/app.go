// Package server wires storage, services and the HTTP API together and runs
// them until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/server/config"
	"github.com/dmitrijs2005/passkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passkeeper/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

// NewApp opens the database named by the config, migrates it and builds the
// HTTP server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := services.NewUserService(db, rm, c, logger.With("module", "users"))
	ps := services.NewPasswordService(db, rm, logger.With("module", "passwords"))
	bs := services.NewBackupService(db, rm, c, logger.With("module", "backups"))

	if !c.BackupsEnabled() {
		logger.Warn(ctx, "no S3 bucket configured, backups are disabled")
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		http:   httpapi.NewServer(c.EndpointAddr, logger, us, ps, bs),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until ctx is done or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.http.Run(ctx)

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "closing database", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
