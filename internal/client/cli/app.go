package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/auth"
	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/config"
	"github.com/dmitrijs2005/gatherly/internal/client/localdb"
	"github.com/dmitrijs2005/gatherly/internal/client/productmeta"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/entities"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/gatherly/internal/client/services"
	"github.com/dmitrijs2005/gatherly/internal/filex"
	"github.com/dmitrijs2005/gatherly/internal/logging"
)

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProductFetcher looks up title, image and price of a product page.
type ProductFetcher interface {
	Fetch(ctx context.Context, url string) (*productmeta.Metadata, error)
}

// App carries everything the sub-commands need. Fields are interfaces so
// tests can build an App from fakes.
type App struct {
	config *config.Config
	log    logging.Logger
	in     *bufio.Reader
	out    io.Writer
	now    func() time.Time
	loc    *time.Location

	session  client.Session
	auth     services.AuthService
	events   services.EventService
	sync     services.SyncService
	wishlist services.WishlistSync
	profile  services.ProfileSync
	state    syncstate.Store
	health   Pinger
	products ProductFetcher

	closers []func() error
}

// NewApp opens the local databases, restores the session from the keyring
// and wires the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat, File: c.LogFile})

	a := &App{
		config: c,
		log:    log,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    time.Now,
		loc:    time.Local,
	}

	for _, p := range []string{c.DatabasePath, c.SyncStatePath} {
		if err := filex.EnsureParentDir(p); err != nil {
			return nil, err
		}
	}

	entDB, err := localdb.OpenEntities(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}
	a.closeDB(entDB)

	stateDB, err := localdb.OpenSyncState(ctx, c.SyncStatePath)
	if err != nil {
		a.Close()
		log.Error(ctx, "error initializing sync state", "path", c.SyncStatePath, "error", err)
		return nil, err
	}
	a.closeDB(stateDB)

	session := auth.NewKeyringSession(c.KeyringService)
	if err := session.Load(); err != nil {
		log.Warn(ctx, "stored session ignored", "error", err)
	}

	health, err := client.NewHealthChecker(c.HealthAddr)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("health checker: %w", err)
	}
	a.closers = append(a.closers, health.Close)

	rest := client.NewRESTClient(c.BackendURL, session, client.WithTimeout(c.RequestTimeout))
	store := entities.NewSQLiteStore(entDB)
	state := syncstate.NewSQLiteStore(stateDB)

	deps := services.SyncDeps{
		Remote:  rest,
		Store:   store,
		State:   state,
		Session: session,
		Blobs:   filex.NewBlobReader(filex.DefaultMaxBlobSize),
		Logger:  log,
		Latch:   &services.Latch{},
	}

	a.session = session
	a.auth = services.NewAuthService(rest, session, health, metadata.NewSQLiteRepository(stateDB))
	a.events = services.NewEventService(store, state, session, log)
	a.sync = services.NewSyncService(deps)
	a.wishlist = services.NewWishlistSync(deps)
	a.profile = services.NewProfileSync(deps)
	a.state = state
	a.health = health
	a.products = productmeta.NewFetcher(productmeta.WithTimeout(c.MetadataTimeout))

	return a, nil
}

func (a *App) closeDB(db *sql.DB) {
	a.closers = append(a.closers, db.Close)
}

// Close releases databases and connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) online(ctx context.Context) bool {
	if a.health == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return a.health.Ping(ctx) == nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
