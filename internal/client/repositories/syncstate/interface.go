// Package syncstate keeps the per-entity sync bookkeeping and the last sync
// time. It lives in its own database, with no transactional coupling to the
// entity store.
package syncstate

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
)

const KeyLastSyncTime = "last_sync_time"

type Store interface {
	Exists(ctx context.Context, id string) (bool, error)
	SetExists(ctx context.Context, id string, exists bool) error

	// Get returns ok=false when id has no record.
	Get(ctx context.Context, id string) (meta models.SyncMeta, ok bool, err error)
	// Put upserts m. A pending delete already recorded stays pending.
	Put(ctx context.Context, m models.SyncMeta) error
	// PutMany stores all records or none.
	PutMany(ctx context.Context, ms []models.SyncMeta) error
	Forget(ctx context.Context, id string) error
	ListPendingDeletes(ctx context.Context) ([]models.SyncMeta, error)

	LastSyncTime(ctx context.Context) (*time.Time, error)
	SetLastSyncTime(ctx context.Context, t time.Time) error
}
