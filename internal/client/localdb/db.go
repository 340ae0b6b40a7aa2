// Package localdb opens the client's SQLite databases and brings their
// schema up to date with the embedded goose migrations.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gatherly/internal/client/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

func RunMigrations(ctx context.Context, db *sql.DB, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", dir, err)
	}
	return nil
}

// dsn enables foreign keys and a busy timeout on every connection.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func open(ctx context.Context, path, dir string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, err
	}
	// A single connection serialises writers and keeps :memory: databases
	// alive for the lifetime of db.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := RunMigrations(ctx, db, dir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenEntities opens the entity store database at path.
func OpenEntities(ctx context.Context, path string) (*sql.DB, error) {
	return open(ctx, path, migrations.DirLocal)
}

// OpenSyncState opens the sync bookkeeping database at path. It is kept in
// its own file so it can be reset without touching user data.
func OpenSyncState(ctx context.Context, path string) (*sql.DB, error) {
	return open(ctx, path, migrations.DirSyncState)
}
