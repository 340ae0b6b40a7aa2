package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gatherly/internal/dbx"
)

type SQLiteStore struct {
	db   *sql.DB
	meta metadata.Repository
	now  func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, meta: metadata.NewSQLiteRepository(db), now: time.Now}
}

const selectMeta = `SELECT entity_id, kind, exists_remote, last_pushed_hash, pending_delete, blob_url, updated_at FROM sync_meta`

func scanMeta(s interface{ Scan(...any) error }) (models.SyncMeta, error) {
	var m models.SyncMeta
	var kind, updated string
	if err := s.Scan(&m.EntityID, &kind, &m.ExistsRemote, &m.LastPushedHash, &m.PendingDelete, &m.BlobURL, &updated); err != nil {
		return m, err
	}
	m.Kind = models.EntityKind(kind)
	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return m, err
	}
	m.UpdatedAt = t
	return m, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.SyncMeta, bool, error) {
	m, err := scanMeta(s.db.QueryRowContext(ctx, selectMeta+` WHERE entity_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncMeta{}, false, nil
	}
	if err != nil {
		return models.SyncMeta{}, false, fmt.Errorf("failed to get sync meta %s: %w", id, err)
	}
	return m, true, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, id string) (bool, error) {
	m, ok, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return ok && m.ExistsRemote, nil
}

func (s *SQLiteStore) SetExists(ctx context.Context, id string, exists bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_meta (entity_id, kind, exists_remote, updated_at) VALUES (?, '', ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET exists_remote = excluded.exists_remote, updated_at = excluded.updated_at
	`, id, exists, s.stamp())
	if err != nil {
		return fmt.Errorf("failed to set exists for %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// put never clears pending_delete; only Forget removes a tombstone.
func put(ctx context.Context, db dbx.DBTX, m models.SyncMeta, stamp string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_meta (entity_id, kind, exists_remote, last_pushed_hash, pending_delete, blob_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			kind = excluded.kind,
			exists_remote = excluded.exists_remote,
			last_pushed_hash = excluded.last_pushed_hash,
			pending_delete = MAX(sync_meta.pending_delete, excluded.pending_delete),
			blob_url = excluded.blob_url,
			updated_at = excluded.updated_at
	`, m.EntityID, string(m.Kind), m.ExistsRemote, m.LastPushedHash, m.PendingDelete, m.BlobURL, stamp)
	if err != nil {
		return fmt.Errorf("failed to put sync meta %s: %w", m.EntityID, err)
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, m models.SyncMeta) error {
	return put(ctx, s.db, m, s.stamp())
}

func (s *SQLiteStore) PutMany(ctx context.Context, ms []models.SyncMeta) error {
	if len(ms) == 0 {
		return nil
	}
	stamp := s.stamp()
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, m := range ms {
			if err := put(ctx, tx, m, stamp); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Forget(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sync_meta WHERE entity_id = ?`, id); err != nil {
		return fmt.Errorf("failed to forget sync meta %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) ListPendingDeletes(ctx context.Context) ([]models.SyncMeta, error) {
	rows, err := s.db.QueryContext(ctx, selectMeta+` WHERE pending_delete = 1 ORDER BY updated_at, entity_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deletes: %w", err)
	}
	defer rows.Close()

	var result []models.SyncMeta
	for rows.Next() {
		m, err := scanMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync meta row: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync meta rows: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) LastSyncTime(ctx context.Context) (*time.Time, error) {
	return s.meta.GetTime(ctx, KeyLastSyncTime)
}

func (s *SQLiteStore) SetLastSyncTime(ctx context.Context, t time.Time) error {
	return s.meta.SetTime(ctx, KeyLastSyncTime, t)
}

var _ Store = (*SQLiteStore)(nil)
