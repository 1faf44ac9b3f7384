// Package server wires configuration, storage, services and the gRPC
// transport into a runnable GophNotes server.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avast/retry-go/v4"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophnotes/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Seams for tests.
var openDB = func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) }

var migrate = func(ctx context.Context, db *sql.DB, m *repomanager.PostgresRepositoryManager) error {
	return m.RunMigrations(ctx, db)
}

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server runner
}

// NewApp connects to Postgres, applies migrations and builds the gRPC
// server. The database is pinged with retries since it may still be
// starting when the server comes up.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		return nil, err
	}

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	err = retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(cfg.DBPingAttempts),
		retry.Delay(cfg.DBPingDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn(ctx, "database not ready", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := migrate(ctx, db, m); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, m, cfg)
	ns := services.NewNotesService(db, m, cfg)
	es := services.NewExportService(db, m, cfg)

	srv := gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, us, ns, es)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then closes
// the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting server", "address", app.config.EndpointAddrGRPC)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(ctx, "closing database", "error", cerr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	app.logger.Info(ctx, "Server stopped")
	return nil
}
