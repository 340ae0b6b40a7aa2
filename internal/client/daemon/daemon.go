// Package daemon runs background synchronization for the watch command.
//
// The daemon:
//  1. probes the backend and tracks online/offline mode
//  2. runs a full sync when coming online and every FullSyncInterval
//  3. runs a quick sync every QuickSyncInterval and shortly after the local
//     database file changes
//
// Nothing is synced while offline.
package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/logging"
	"github.com/fsnotify/fsnotify"
)

type Syncer interface {
	FullSync(ctx context.Context) (models.SyncReport, error)
	QuickSync(ctx context.Context) (models.SyncReport, error)
}

// Runner is a secondary sync path run after every full sync.
type Runner interface {
	Sync(ctx context.Context) (models.SyncReport, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	// DBPath is the entity database to watch. Empty disables file watching.
	DBPath              string
	OnlineCheckInterval time.Duration
	QuickSyncInterval   time.Duration
	FullSyncInterval    time.Duration
	// Debounce batches bursts of writes into one quick sync.
	Debounce time.Duration
}

func DefaultConfig() Config {
	return Config{
		OnlineCheckInterval: 30 * time.Second,
		QuickSyncInterval:   2 * time.Minute,
		FullSyncInterval:    15 * time.Minute,
		Debounce:            500 * time.Millisecond,
	}
}

type Daemon struct {
	cfg    Config
	sync   Syncer
	extras []Runner
	pinger Pinger
	log    logging.Logger

	online atomic.Bool
}

func New(cfg Config, s Syncer, pinger Pinger, log logging.Logger, extras ...Runner) *Daemon {
	def := DefaultConfig()
	if cfg.OnlineCheckInterval <= 0 {
		cfg.OnlineCheckInterval = def.OnlineCheckInterval
	}
	if cfg.QuickSyncInterval <= 0 {
		cfg.QuickSyncInterval = def.QuickSyncInterval
	}
	if cfg.FullSyncInterval <= 0 {
		cfg.FullSyncInterval = def.FullSyncInterval
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Daemon{cfg: cfg, sync: s, extras: extras, pinger: pinger, log: log.With("module", "daemon")}
}

func (d *Daemon) Online() bool {
	return d.online.Load()
}

// Run blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	var fsEvents <-chan fsnotify.Event
	var fsErrors <-chan error
	if d.cfg.DBPath != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create fsnotify watcher: %w", err)
		}
		defer w.Close()
		dir := filepath.Dir(d.cfg.DBPath)
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		fsEvents, fsErrors = w.Events, w.Errors
	}

	d.log.Info(ctx, "daemon started", "db", d.cfg.DBPath)
	if d.probe(ctx) {
		d.fullSync(ctx)
	}

	onlineTick := time.NewTicker(d.cfg.OnlineCheckInterval)
	defer onlineTick.Stop()
	quickTick := time.NewTicker(d.cfg.QuickSyncInterval)
	defer quickTick.Stop()
	fullTick := time.NewTicker(d.cfg.FullSyncInterval)
	defer fullTick.Stop()

	var debounce *time.Timer
	var debounceC <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			d.log.Info(ctx, "daemon stopped")
			return nil

		case <-onlineTick.C:
			was := d.Online()
			if d.probe(ctx) && !was {
				d.fullSync(ctx)
			}

		case <-quickTick.C:
			if d.Online() {
				d.quickSync(ctx, "interval")
			}

		case <-fullTick.C:
			if d.Online() {
				d.fullSync(ctx)
			}

		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if !d.relevant(ev) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(d.cfg.Debounce)
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			if d.Online() {
				d.quickSync(ctx, "local change")
			}

		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			d.log.Warn(ctx, "file watcher error", "error", err)
		}
	}
}

// relevant matches writes to the database file and its journal or WAL.
func (d *Daemon) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(d.cfg.DBPath)
	return strings.HasPrefix(filepath.Base(ev.Name), base)
}

func (d *Daemon) probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, d.cfg.OnlineCheckInterval)
	defer cancel()

	err := d.pinger.Ping(pctx)
	online := err == nil
	if d.online.Swap(online) != online {
		if online {
			d.log.Info(ctx, "backend reachable, switching to online mode")
		} else {
			d.log.Warn(ctx, "backend unreachable, switching to offline mode", "error", err)
		}
	}
	return online
}

func (d *Daemon) fullSync(ctx context.Context) {
	report, err := d.sync.FullSync(ctx)
	d.logRun(ctx, "full", report, err)
	for _, r := range d.extras {
		report, err := r.Sync(ctx)
		d.logRun(ctx, "secondary", report, err)
	}
}

func (d *Daemon) quickSync(ctx context.Context, reason string) {
	report, err := d.sync.QuickSync(ctx)
	d.logRun(ctx, "quick ("+reason+")", report, err)
}

func (d *Daemon) logRun(ctx context.Context, kind string, r models.SyncReport, err error) {
	switch {
	case err != nil:
		d.log.Error(ctx, "sync failed", "kind", kind, "error", err)
	case r.Skipped:
		d.log.Debug(ctx, "sync skipped", "kind", kind)
	default:
		d.log.Info(ctx, "sync done", "kind", kind, "created", r.Created, "updated", r.Updated,
			"pulled", r.Pulled, "deleted", r.Deleted, "failed", r.Failed)
	}
}
