package syncstate

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/localdb"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	db, err := localdb.OpenSyncState(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func TestExists_DefaultsToFalse(t *testing.T) {
	s := setupStore(t, ":memory:")
	ctx := context.Background()

	ok, err := s.Exists(ctx, "e1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetExists(ctx, "e1", true))
	ok, err = s.Exists(ctx, "e1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.SetExists(ctx, "e1", false))
	ok, err = s.Exists(ctx, "e1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetExists_KeepsOtherFields(t *testing.T) {
	s := setupStore(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, models.SyncMeta{EntityID: "e1", Kind: models.KindEvent, LastPushedHash: "h1"}))
	require.NoError(t, s.SetExists(ctx, "e1", true))

	m, ok, err := s.Get(ctx, "e1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, models.KindEvent, m.Kind)
	require.Equal(t, "h1", m.LastPushedHash)
	require.True(t, m.ExistsRemote)
}

func TestPutMany_AndPendingDeletes(t *testing.T) {
	s := setupStore(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, s.PutMany(ctx, []models.SyncMeta{
		{EntityID: "e1", Kind: models.KindEvent, ExistsRemote: true},
		{EntityID: "p1", Kind: models.KindPhoto, ExistsRemote: true, PendingDelete: true, BlobURL: "http://x/p1.jpg"},
		{EntityID: "i1", Kind: models.KindInvitation, PendingDelete: true},
	}))

	pending, err := s.ListPendingDeletes(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	ids := []string{pending[0].EntityID, pending[1].EntityID}
	require.ElementsMatch(t, []string{"p1", "i1"}, ids)

	require.NoError(t, s.Forget(ctx, "p1"))
	_, ok, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPut_KeepsPendingDelete(t *testing.T) {
	s := setupStore(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, models.SyncMeta{EntityID: "e1", Kind: models.KindEvent, ExistsRemote: true, PendingDelete: true}))
	require.NoError(t, s.PutMany(ctx, []models.SyncMeta{{EntityID: "e1", Kind: models.KindEvent, ExistsRemote: true, LastPushedHash: "h2"}}))

	m, ok, err := s.Get(ctx, "e1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, m.PendingDelete)
	require.Equal(t, "h2", m.LastPushedHash)
}

func TestLastSyncTime(t *testing.T) {
	s := setupStore(t, ":memory:")
	ctx := context.Background()

	last, err := s.LastSyncTime(ctx)
	require.NoError(t, err)
	require.Nil(t, last)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetLastSyncTime(ctx, ts))

	last, err = s.LastSyncTime(ctx)
	require.NoError(t, err)
	require.True(t, ts.Equal(*last))
}

func TestState_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.db")
	ctx := context.Background()

	db, err := localdb.OpenSyncState(ctx, path)
	require.NoError(t, err)
	s := NewSQLiteStore(db)
	require.NoError(t, s.SetExists(ctx, "e1", true))
	require.NoError(t, s.SetLastSyncTime(ctx, time.Unix(1_700_000_000, 0)))
	require.NoError(t, db.Close())

	reopened := setupStore(t, path)
	ok, err := reopened.Exists(ctx, "e1")
	require.NoError(t, err)
	require.True(t, ok)

	last, err := reopened.LastSyncTime(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1_700_000_000), last.Unix())
}
