package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gatherly/internal/client/localdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := localdb.OpenSyncState(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestGet_Absent(t *testing.T) {
	r := setupRepo(t)

	v, ok, err := r.Get(context.Background(), "account_email")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSet_OverwritesValue(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "account_email", "old@example.com"))
	require.NoError(t, r.Set(ctx, "account_email", "new@example.com"))

	v, ok, err := r.Get(ctx, "account_email")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new@example.com", v)
}

func TestDelete_Idempotent(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", "v"))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTime_RoundTripInUTC(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	loc := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2025, 6, 1, 12, 30, 0, 123456789, loc)
	require.NoError(t, r.SetTime(ctx, "last_sync_time", at))

	got, err := r.GetTime(ctx, "last_sync_time")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(*got))
	assert.Equal(t, time.UTC, got.Location())
}

func TestGetTime_AbsentAndMalformed(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	got, err := r.GetTime(ctx, "last_sync_time")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, r.Set(ctx, "last_sync_time", "yesterday"))
	_, err = r.GetTime(ctx, "last_sync_time")
	assert.Error(t, err)
}

func TestErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT value FROM metadata`).WithArgs("k").WillReturnError(assert.AnError)
	_, _, err = r.Get(ctx, "k")
	require.ErrorIs(t, err, assert.AnError)

	mock.ExpectExec(`INSERT INTO metadata`).WithArgs("k", "v").WillReturnError(assert.AnError)
	require.ErrorIs(t, r.Set(ctx, "k", "v"), assert.AnError)

	mock.ExpectExec(`DELETE FROM metadata`).WithArgs("k").WillReturnError(assert.AnError)
	require.ErrorIs(t, r.Delete(ctx, "k"), assert.AnError)

	require.NoError(t, mock.ExpectationsWereMet())
}
