package localdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gatherly/internal/client/migrations"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpenEntities_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := OpenEntities(ctx, filepath.Join(t.TempDir(), "gatherly.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"goose_db_version", "events", "invitations", "event_photos", "wishlist_items", "user_profiles"} {
		require.True(t, tableExists(t, db, table), table)
	}
	require.False(t, tableExists(t, db, "sync_meta"))
}

func TestOpenSyncState_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSyncState(ctx, filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	defer db.Close()

	require.True(t, tableExists(t, db, "sync_meta"))
	require.True(t, tableExists(t, db, "metadata"))
	require.False(t, tableExists(t, db, "events"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gatherly.db")

	db, err := OpenEntities(ctx, path)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db, migrations.DirLocal))
	require.NoError(t, db.Close())

	db, err = OpenEntities(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	require.True(t, tableExists(t, db, "events"))
}

func TestOpenEntities_ForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	db, err := OpenEntities(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO invitations (id, event_id, guest_name, status, sent_at, created_at, updated_at)
		VALUES ('i1', 'missing', 'Ann', 'pending', 'x', 'x', 'x')`)
	require.Error(t, err)
}
