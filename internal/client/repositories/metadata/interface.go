// Package metadata is a small key/value table living next to the sync
// bookkeeping. It holds process-wide values such as the last successful
// sync time and the signed-in account email.
package metadata

import (
	"context"
	"time"
)

type Repository interface {
	// Get reports ok=false when key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// GetTime returns nil when key is absent.
	GetTime(ctx context.Context, key string) (*time.Time, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}
