package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSyncer struct {
	full, quick atomic.Int32
}

func (s *countingSyncer) FullSync(context.Context) (models.SyncReport, error) {
	s.full.Add(1)
	return models.SyncReport{}, nil
}

func (s *countingSyncer) QuickSync(context.Context) (models.SyncReport, error) {
	s.quick.Add(1)
	return models.SyncReport{}, nil
}

type countingRunner struct{ n atomic.Int32 }

func (r *countingRunner) Sync(context.Context) (models.SyncReport, error) {
	r.n.Add(1)
	return models.SyncReport{}, nil
}

type switchPinger struct{ up atomic.Bool }

func (p *switchPinger) Ping(context.Context) error {
	if p.up.Load() {
		return nil
	}
	return errors.New("down")
}

func start(t *testing.T, d *Daemon) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("daemon did not stop")
		}
	})
}

func TestDaemon_FullSyncWhenOnlineAtStart(t *testing.T) {
	s := &countingSyncer{}
	extra := &countingRunner{}
	p := &switchPinger{}
	p.up.Store(true)

	d := New(Config{OnlineCheckInterval: time.Hour, QuickSyncInterval: time.Hour, FullSyncInterval: time.Hour}, s, p, nil, extra)
	start(t, d)

	require.Eventually(t, func() bool { return s.full.Load() == 1 && extra.n.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, d.Online())
}

func TestDaemon_OfflineSkipsUntilBackendReturns(t *testing.T) {
	s := &countingSyncer{}
	p := &switchPinger{}

	d := New(Config{OnlineCheckInterval: 10 * time.Millisecond, QuickSyncInterval: 15 * time.Millisecond, FullSyncInterval: time.Hour}, s, p, nil)
	start(t, d)

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, s.full.Load())
	assert.Zero(t, s.quick.Load())
	assert.False(t, d.Online())

	p.up.Store(true)
	require.Eventually(t, func() bool { return s.full.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return s.quick.Load() > 0 }, time.Second, 5*time.Millisecond)
}

func TestDaemon_QuickSyncOnDatabaseWrite(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "gatherly.db")
	require.NoError(t, os.WriteFile(db, []byte("x"), 0o600))

	s := &countingSyncer{}
	p := &switchPinger{}
	p.up.Store(true)
	d := New(Config{DBPath: db, OnlineCheckInterval: time.Hour, QuickSyncInterval: time.Hour,
		FullSyncInterval: time.Hour, Debounce: 20 * time.Millisecond}, s, p, nil)
	start(t, d)
	require.Eventually(t, func() bool { return s.full.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, s.quick.Load())

	for range 5 {
		require.NoError(t, os.WriteFile(db+"-wal", []byte("y"), 0o600))
	}
	require.Eventually(t, func() bool { return s.quick.Load() == 1 }, time.Second, 5*time.Millisecond)
}
