package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/entities"
	"github.com/dmitrijs2005/gatherly/internal/client/schema"
	"github.com/dmitrijs2005/gatherly/internal/common"
)

// WishlistSync synchronizes the account's personal wishlist. Items that
// belong to an event or to a contact stay local, and item images are never
// uploaded.
type WishlistSync interface {
	Sync(ctx context.Context) (models.SyncReport, error)
}

type wishlistSync struct {
	*syncService
}

// NewWishlistSync shares deps, and in particular the latch, with the event
// sync built from the same SyncDeps.
func NewWishlistSync(d SyncDeps) WishlistSync {
	s := newSyncService(d)
	s.log = s.log.With("path", "wishlist")
	return &wishlistSync{syncService: s}
}

func (w *wishlistSync) Sync(ctx context.Context) (models.SyncReport, error) {
	if !w.latch.TryAcquire() {
		return models.SyncReport{Skipped: true}, nil
	}
	defer w.latch.Release()

	if !w.session.IsAuthenticated() {
		return models.SyncReport{Skipped: true}, client.ErrUnauthenticated
	}
	account := w.session.AccountID()

	report := w.pushDeletes(ctx, models.KindWishlistItem)

	pulled, err := w.pullWishlist(ctx, account)
	report.Add(pulled)
	if err != nil {
		w.log.Error(ctx, "wishlist pull failed", "error", err)
		return report, fmt.Errorf("pull wishlist: %w", err)
	}

	pushed, err := w.pushWishlist(ctx, account)
	report.Add(pushed)
	if err != nil {
		w.log.Error(ctx, "wishlist push failed", "error", err)
		return report, fmt.Errorf("push wishlist: %w", err)
	}
	return report, nil
}

func (w *wishlistSync) pullWishlist(ctx context.Context, account string) (models.SyncReport, error) {
	var report models.SyncReport

	rows, err := w.remote.ListWishlistItems(ctx)
	if err != nil {
		return report, err
	}
	locals, err := w.store.Wishlist().ListAll(ctx)
	if err != nil {
		return report, err
	}
	byID := make(map[string]*models.WishlistItem, len(locals))
	for _, it := range locals {
		byID[it.ID] = it
	}
	pending, err := w.state.ListPendingDeletes(ctx)
	if err != nil {
		return report, err
	}
	deleting := make(map[string]bool, len(pending))
	for _, m := range pending {
		deleting[m.EntityID] = true
	}

	var items []*models.WishlistItem
	var metas []models.SyncMeta
	for _, row := range rows {
		if row.UserID != account || deleting[row.ID] {
			continue
		}
		remote, diags := schema.WishlistItemFromRow(row)
		w.logDiagnostics(ctx, row.ID, diags)

		local, ok := byID[row.ID]
		switch {
		case !ok:
			items = append(items, remote)
			report.Pulled++
		case remote.UpdatedAt.After(local.UpdatedAt):
			schema.ApplyWishlistItemRow(local, row)
			items = append(items, local)
			report.Refreshed++
		default:
			continue
		}

		it := items[len(items)-1]
		hash, err := schema.ContentHash(schema.NewWishlistItemUpdate(it))
		if err != nil {
			return report, err
		}
		metas = append(metas, models.SyncMeta{EntityID: it.ID, Kind: models.KindWishlistItem, ExistsRemote: true, LastPushedHash: hash})
	}

	if len(items) == 0 {
		return report, nil
	}
	err = w.store.InTx(ctx, func(ctx context.Context, tx entities.Store) error {
		for _, it := range items {
			if err := tx.Wishlist().Upsert(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("save pulled items: %w", err)
	}
	return report, w.state.PutMany(ctx, metas)
}

// itemMerge is the server updated_at to adopt for an item whose local
// updated_at is still base.
type itemMerge struct {
	base      time.Time
	updatedAt time.Time
}

func (w *wishlistSync) pushWishlist(ctx context.Context, account string) (models.SyncReport, error) {
	var report models.SyncReport

	locals, err := w.store.Wishlist().ListAll(ctx)
	if err != nil {
		return report, err
	}

	merged := make(map[string]itemMerge)
	var metas []models.SyncMeta
	for _, it := range locals {
		if !it.IsPersonal(account) {
			continue
		}
		m, err := w.meta(ctx, it.ID, models.KindWishlistItem)
		if err != nil {
			return report, err
		}
		update := schema.NewWishlistItemUpdate(it)
		hash, err := schema.ContentHash(update)
		if err != nil {
			return report, err
		}

		var row schema.WishlistItemRow
		if m.ExistsRemote {
			if hash == m.LastPushedHash {
				report.Unchanged++
				continue
			}
			row, err = w.remote.UpdateWishlistItem(ctx, it.ID, update)
			if errors.Is(err, client.ErrNotFound) {
				w.log.Warn(ctx, "wishlist item gone remotely, update skipped", "item_id", it.ID)
				err = nil
			} else if err == nil {
				report.Updated++
			}
		} else {
			row, err = w.remote.InsertWishlistItem(ctx, schema.NewWishlistItemInsert(it))
			if errors.Is(err, client.ErrAlreadyExists) {
				hash, err = "", nil
			} else if err == nil {
				report.Created++
			}
		}
		if err != nil {
			report.Failed++
			w.log.Error(ctx, "wishlist item push failed", "item_id", it.ID, "error", err)
			continue
		}

		m.ExistsRemote = true
		m.LastPushedHash = hash
		metas = append(metas, m)
		if t, err := schema.ParseTimestamp(row.UpdatedAt); err == nil && t.After(it.UpdatedAt) {
			merged[it.ID] = itemMerge{base: it.UpdatedAt, updatedAt: t}
		}
	}

	if len(merged) > 0 {
		err := w.store.InTx(ctx, func(ctx context.Context, tx entities.Store) error {
			for id, m := range merged {
				cur, err := tx.Wishlist().GetByID(ctx, id)
				if errors.Is(err, common.ErrorNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				// Edited while the push was in flight: keep the edit.
				if !cur.UpdatedAt.Equal(m.base) {
					continue
				}
				cur.UpdatedAt = m.updatedAt
				if err := tx.Wishlist().Upsert(ctx, cur); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return report, err
		}
	}
	return report, w.state.PutMany(ctx, metas)
}
