package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/config"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/notes"
	"github.com/dmitrijs2005/gophnotes/internal/client/services"
	"github.com/dmitrijs2005/gophnotes/internal/filex"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Mode is the sync state shown in the prompt.
type Mode string

const (
	ModeOnline    Mode = "online"
	ModeOffline   Mode = "offline"
	ModeDisabled  Mode = "sync-off"
	ModeLocal     Mode = "local"
	ModeSignedOut Mode = "signed-out"
)

// identityService is the part of services.IdentityService the CLI drives.
type identityService interface {
	SignIn(ctx context.Context, username string, password []byte) (services.SignInResult, error)
	Register(ctx context.Context, username string, password []byte) error
	Reconnect(ctx context.Context) error
	SignOut(ctx context.Context) error
	Current() models.Identity
	State() services.State
	Online() bool
	Close() error
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	dbPath   string
	identity identityService
	store    *notes.Store
	reader   *bufio.Reader
	out      io.Writer

	// reachable is the last connectivity probe result.
	reachable atomic.Bool
}

// NewApp opens the local database, loads the notes and prepares the remote
// adapter. No network traffic happens here.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	dbPath := filepath.Join(dir, config.DBFileName)

	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewGophNotesClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	identity := services.NewIdentityService(apiClient, db, logger)
	store := notes.NewStore(notes.NewSQLiteLocal(db), apiClient, identity, logger,
		notes.WithRemoteTimeout(c.RemoteTimeout),
		notes.WithRetention(c.TrashRetention),
	)
	if err := store.Load(ctx); err != nil {
		_ = apiClient.Close()
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		dbPath:   dbPath,
		identity: identity,
		store:    store,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return errors.Join(a.identity.Close(), a.db.Close())
}

// Run signs in, starts the background loops and blocks in the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to GophNotes CLI (type 'help' for commands)")
	if err := a.Login(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.store.WatchConnectivity(gctx, a.config.OnlineCheckInterval, a.onConnectivity)
		return nil
	})
	g.Go(func() error {
		a.store.RunJanitor(gctx, a.config.JanitorInterval)
		return nil
	})
	g.Go(func() error {
		if err := a.store.WatchLocal(gctx, a.dbPath, a.config.WatchDebounce); err != nil {
			a.logger.Warn(gctx, "local watcher stopped", "error", err)
		}
		return nil
	})

	runREPL(ctx, a, a.status, a.reader, a.out)

	cancel()
	return g.Wait()
}

// onConnectivity reacts to the server coming back: a session that signed in
// with cached credentials logs in for real, and a store whose last attempt
// failed retries the connection.
func (a *App) onConnectivity(ctx context.Context, online bool) {
	a.reachable.Store(online)
	if !online || a.identity.State() != services.StateRemote {
		return
	}

	retry := a.store.LastError() != nil
	if !a.identity.Online() {
		if err := a.identity.Reconnect(ctx); err != nil {
			a.logger.Warn(ctx, "reconnect failed", "error", err)
			return
		}
		retry = true
	}
	if !retry {
		return
	}
	if err := a.store.RetryConnection(ctx); err != nil {
		a.logger.Warn(ctx, "sync retry failed", "error", err)
	}
}

func (a *App) mode() Mode {
	id := a.identity.Current()
	switch {
	case id.Kind == models.IdentityLocal:
		return ModeLocal
	case !id.IsRemote():
		return ModeSignedOut
	case !a.reachable.Load():
		return ModeOffline
	case !a.store.Available():
		return ModeDisabled
	}
	return ModeOnline
}

// status renders the prompt prefix, e.g. "(alice online)".
func (a *App) status() string {
	id := a.identity.Current()
	if id.IsRemote() {
		return fmt.Sprintf("(%s %s)", id.Username, a.mode())
	}
	return fmt.Sprintf("(%s)", a.mode())
}
