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

// pushed collects what the push phase learned from the backend: merged
// server values, uploaded blob URLs and sync records. Only these columns
// are written back, onto a fresh read of each row, so edits committed
// while the push was on the network survive.
type pushed struct {
	events      map[string]*eventMerge
	invitations map[string]schema.InvitationRow
	photos      map[string]string
	metas       []models.SyncMeta
}

// eventMerge holds server values for one event. base is the local
// updated_at the push read; the server's updated_at is adopted only while
// the local row still carries it.
type eventMerge struct {
	base      time.Time
	updatedAt *time.Time
	coverURL  *string
	coverPath string
}

func newPushed() *pushed {
	return &pushed{
		events:      make(map[string]*eventMerge),
		invitations: make(map[string]schema.InvitationRow),
		photos:      make(map[string]string),
	}
}

func (p *pushed) event(id string, base time.Time) *eventMerge {
	m, ok := p.events[id]
	if !ok {
		m = &eventMerge{base: base}
		p.events[id] = m
	}
	return m
}

// push sends pending deletes and then every local event with its
// dependents, one event at a time. A failing event is logged and counted;
// the loop carries on with the next one.
func (s *syncService) push(ctx context.Context) (models.SyncReport, error) {
	report := s.pushDeletes(ctx, models.KindEvent, models.KindInvitation, models.KindPhoto)

	events, err := s.store.Events().ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list local events: %w", err)
	}

	out := newPushed()
	for _, e := range events {
		r, err := s.pushEvent(ctx, e, out)
		report.Add(r)
		if err != nil {
			report.Failed++
			s.log.Error(ctx, "event push failed", "event_id", e.ID, "error", err)
		}
	}

	if err := s.savePushed(ctx, out); err != nil {
		return report, err
	}
	return report, nil
}

func (s *syncService) savePushed(ctx context.Context, out *pushed) error {
	if len(out.events)+len(out.invitations)+len(out.photos) > 0 {
		err := s.store.InTx(ctx, func(ctx context.Context, tx entities.Store) error {
			for id, m := range out.events {
				if err := mergeEvent(ctx, tx, id, m); err != nil {
					return err
				}
			}
			for id, row := range out.invitations {
				cur, err := tx.Invitations().GetByID(ctx, id)
				if errors.Is(err, common.ErrorNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				schema.MergeInvitationRow(cur, row)
				if err := tx.Invitations().Upsert(ctx, cur); err != nil {
					return err
				}
			}
			for id, url := range out.photos {
				cur, err := tx.Photos().GetByID(ctx, id)
				if errors.Is(err, common.ErrorNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				if cur.ImageURL != nil && *cur.ImageURL != "" {
					continue
				}
				cur.ImageURL = &url
				if err := tx.Photos().Upsert(ctx, cur); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("save pushed entities: %w", err)
		}
	}
	if err := s.state.PutMany(ctx, out.metas); err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}
	return nil
}

// mergeEvent folds server values into the current local row. A row removed
// during the push is left alone.
func mergeEvent(ctx context.Context, tx entities.Store, id string, m *eventMerge) error {
	cur, err := tx.Events().GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	changed := false
	if m.coverURL != nil && deref(cur.CoverImagePath) == m.coverPath {
		cur.CoverImageURL = m.coverURL
		cur.CoverImagePath = nil
		changed = true
	}
	if m.updatedAt != nil && cur.UpdatedAt.Equal(m.base) {
		cur.UpdatedAt = *m.updatedAt
		changed = true
	}
	if !changed {
		return nil
	}
	return tx.Events().Upsert(ctx, cur)
}

func (s *syncService) meta(ctx context.Context, id string, kind models.EntityKind) (models.SyncMeta, error) {
	m, ok, err := s.state.Get(ctx, id)
	if err != nil {
		return m, err
	}
	if !ok {
		m = models.SyncMeta{EntityID: id}
	}
	m.Kind = kind
	return m, nil
}

func (s *syncService) pushEvent(ctx context.Context, e *models.Event, out *pushed) (models.SyncReport, error) {
	var report models.SyncReport

	m, err := s.meta(ctx, e.ID, models.KindEvent)
	if err != nil {
		return report, err
	}
	base := e.UpdatedAt

	if e.CoverImagePath != nil && *e.CoverImagePath != "" {
		path := *e.CoverImagePath
		url, err := s.upload(ctx, common.BucketEventCovers, e.ID+".jpg", path)
		if err != nil {
			return report, fmt.Errorf("upload cover: %w", err)
		}
		e.CoverImageURL = &url
		e.CoverImagePath = nil
		merge := out.event(e.ID, base)
		merge.coverURL = &url
		merge.coverPath = path
	}
	m.BlobURL = deref(e.CoverImageURL)

	update := schema.NewEventUpdate(e)
	hash, err := schema.ContentHash(update)
	if err != nil {
		return report, err
	}

	if m.ExistsRemote {
		if hash == m.LastPushedHash {
			report.Unchanged++
		} else {
			row, err := s.remote.UpdateEvent(ctx, e.ID, update)
			switch {
			case errors.Is(err, client.ErrNotFound):
				s.log.Warn(ctx, "event gone remotely, update skipped", "event_id", e.ID)
				m.LastPushedHash = hash
				out.metas = append(out.metas, m)
				return report, nil
			case err != nil:
				return report, fmt.Errorf("update event: %w", err)
			}
			m.LastPushedHash = hash
			s.mergeUpdatedAt(e, base, row.UpdatedAt, out)
			report.Updated++
		}
	} else {
		row, err := s.remote.InsertEvent(ctx, schema.NewEventInsert(e))
		switch {
		case errors.Is(err, client.ErrAlreadyExists):
			// An earlier insert landed but its flag was lost. The next push
			// sends a full update.
			s.log.Info(ctx, "event already exists remotely", "event_id", e.ID)
			m.LastPushedHash = ""
		case err != nil:
			return report, fmt.Errorf("insert event: %w", err)
		case row.ID != e.ID:
			return report, fmt.Errorf("insert event: backend returned id %q for %q", row.ID, e.ID)
		default:
			m.LastPushedHash = hash
			s.mergeUpdatedAt(e, base, row.UpdatedAt, out)
			report.Created++
		}
		m.ExistsRemote = true
	}
	out.metas = append(out.metas, m)

	r, err := s.pushInvitations(ctx, e, out)
	report.Add(r)
	if err != nil {
		return report, fmt.Errorf("invitations: %w", err)
	}

	// Event-scoped wishlist items stay local; only the personal wishlist is
	// synchronized, by WishlistSync.

	r, err = s.pushPhotos(ctx, e, out)
	report.Add(r)
	if err != nil {
		return report, fmt.Errorf("photos: %w", err)
	}
	return report, nil
}

// mergeUpdatedAt adopts the server's updated_at so the next pull does not
// see our own write as a remote change.
func (s *syncService) mergeUpdatedAt(e *models.Event, base time.Time, raw string, out *pushed) {
	t, err := schema.ParseTimestamp(raw)
	if err != nil {
		return
	}
	if t.After(e.UpdatedAt) {
		e.UpdatedAt = t
		out.event(e.ID, base).updatedAt = &t
	}
}

func (s *syncService) pushInvitations(ctx context.Context, e *models.Event, out *pushed) (models.SyncReport, error) {
	var report models.SyncReport

	locals, err := s.store.Invitations().ListByParent(ctx, e.ID)
	if err != nil || len(locals) == 0 {
		return report, err
	}
	rows, err := s.remote.ListInvitations(ctx, e.ID)
	if err != nil {
		return report, err
	}
	remote := make(map[string]bool, len(rows))
	for _, r := range rows {
		remote[r.ID] = true
	}

	for _, inv := range locals {
		if remote[inv.ID] {
			continue
		}
		row, err := s.remote.InsertInvitation(ctx, schema.NewInvitationInsert(inv))
		switch {
		case errors.Is(err, client.ErrAlreadyExists):
		case err != nil:
			return report, fmt.Errorf("insert invitation %s: %w", inv.ID, err)
		default:
			schema.MergeInvitationRow(inv, row)
			out.invitations[inv.ID] = row
			report.Created++
		}
		out.metas = append(out.metas, models.SyncMeta{EntityID: inv.ID, Kind: models.KindInvitation, ExistsRemote: true})
	}
	return report, nil
}

// pushPhotos uploads and inserts photos missing remotely, in display
// order. A photo without a resolved URL is never inserted.
func (s *syncService) pushPhotos(ctx context.Context, e *models.Event, out *pushed) (models.SyncReport, error) {
	var report models.SyncReport

	locals, err := s.store.Photos().ListByParent(ctx, e.ID)
	if err != nil || len(locals) == 0 {
		return report, err
	}
	rows, err := s.remote.ListEventPhotos(ctx, e.ID)
	if err != nil {
		return report, err
	}
	remote := make(map[string]bool, len(rows))
	for _, r := range rows {
		remote[r.ID] = true
	}

	for _, p := range locals {
		if remote[p.ID] {
			continue
		}
		if p.ImageURL == nil || *p.ImageURL == "" {
			if p.LocalPath == nil || *p.LocalPath == "" {
				s.log.Warn(ctx, "photo has neither url nor local file, skipped", "event_id", e.ID, "photo_id", p.ID)
				continue
			}
			url, err := s.upload(ctx, common.BucketEventPhotos, fmt.Sprintf("%s_%s.jpg", e.ID, p.ID), *p.LocalPath)
			if err != nil {
				return report, fmt.Errorf("upload photo %s: %w", p.ID, err)
			}
			p.ImageURL = &url
			out.photos[p.ID] = url
		}

		ins, ok := schema.NewEventPhotoInsert(p)
		if !ok {
			continue
		}
		_, err := s.remote.InsertEventPhoto(ctx, ins)
		switch {
		case errors.Is(err, client.ErrAlreadyExists):
		case err != nil:
			return report, fmt.Errorf("insert photo %s: %w", p.ID, err)
		default:
			report.Created++
		}
		out.metas = append(out.metas, models.SyncMeta{EntityID: p.ID, Kind: models.KindPhoto, ExistsRemote: true, BlobURL: *p.ImageURL})
	}
	return report, nil
}

func (s *syncService) upload(ctx context.Context, bucket, name, path string) (string, error) {
	if s.blobs == nil {
		return "", errors.New("no blob source configured")
	}
	data, contentType, err := s.blobs.Read(path)
	if err != nil {
		return "", err
	}
	return s.remote.UploadBlob(ctx, bucket, name, data, contentType)
}

// pushDeletes sends pending remote deletes of the given kinds. Not found
// counts as done. Blob cleanup failures are logged and do not keep the
// record pending.
func (s *syncService) pushDeletes(ctx context.Context, kinds ...models.EntityKind) models.SyncReport {
	return sendDeletes(ctx, s.remote, s.state, s.log, kinds...)
}
