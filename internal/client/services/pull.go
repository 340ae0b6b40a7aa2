package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/entities"
	"github.com/dmitrijs2005/gatherly/internal/client/schema"
)

// pulled collects the local writes of the pull phase so they can be
// committed together.
type pulled struct {
	events      []*models.Event
	invitations []*models.Invitation
	photos      []*models.EventPhoto
	metas       []models.SyncMeta
	// deleting holds ids removed locally whose remote delete is pending;
	// they must not come back through the pull.
	deleting map[string]bool
}

// pull brings remote events into the local store. Events missing locally
// are created, events whose remote updated_at is newer are refreshed. For
// both, dependents missing locally are materialized. Any error aborts the
// phase before anything is written.
func (s *syncService) pull(ctx context.Context) (models.SyncReport, error) {
	var report models.SyncReport

	rows, err := s.remote.ListEvents(ctx)
	if err != nil {
		return report, fmt.Errorf("list remote events: %w", err)
	}
	locals, err := s.store.Events().ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list local events: %w", err)
	}
	byID := make(map[string]*models.Event, len(locals))
	for _, e := range locals {
		byID[e.ID] = e
	}

	pending, err := s.state.ListPendingDeletes(ctx)
	if err != nil {
		return report, fmt.Errorf("list pending deletes: %w", err)
	}
	out := pulled{deleting: make(map[string]bool, len(pending))}
	for _, m := range pending {
		out.deleting[m.EntityID] = true
	}

	for _, row := range rows {
		if out.deleting[row.ID] {
			continue
		}
		remote, diags := schema.EventFromRow(row)
		s.logDiagnostics(ctx, row.ID, diags)
		badDate := diags.Has("date")

		local, ok := byID[row.ID]
		switch {
		case !ok && badDate:
			s.log.Warn(ctx, "skipping remote event with unusable date", "event_id", row.ID, "date", row.Date)
			continue
		case !ok:
			out.events = append(out.events, remote)
			report.Pulled++
		case remote.UpdatedAt.After(local.UpdatedAt):
			// A malformed remote date keeps the local one.
			schema.ApplyEventRow(local, row)
			out.events = append(out.events, local)
			report.Refreshed++
		default:
			continue
		}

		e := out.events[len(out.events)-1]
		hash, err := schema.ContentHash(schema.NewEventUpdate(e))
		if err != nil {
			return report, err
		}
		if badDate {
			// The remote row differs from the local one; the next push repairs it.
			hash = ""
		}
		out.metas = append(out.metas, models.SyncMeta{
			EntityID:       e.ID,
			Kind:           models.KindEvent,
			ExistsRemote:   true,
			LastPushedHash: hash,
			BlobURL:        deref(e.CoverImageURL),
		})

		if err := s.pullDependents(ctx, e.ID, &out); err != nil {
			return report, err
		}
	}

	if len(out.events) == 0 {
		return report, nil
	}

	err = s.store.InTx(ctx, func(ctx context.Context, tx entities.Store) error {
		for _, e := range out.events {
			if err := tx.Events().Upsert(ctx, e); err != nil {
				return err
			}
		}
		for _, i := range out.invitations {
			if err := tx.Invitations().Upsert(ctx, i); err != nil {
				return err
			}
		}
		for _, p := range out.photos {
			if err := tx.Photos().Upsert(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("save pulled events: %w", err)
	}
	if err := s.state.PutMany(ctx, out.metas); err != nil {
		return report, fmt.Errorf("save pulled sync state: %w", err)
	}
	return report, nil
}

// pullDependents adds remote invitations and photos of eventID that do not
// exist locally. Existing local dependents are left alone.
func (s *syncService) pullDependents(ctx context.Context, eventID string, out *pulled) error {
	invRows, err := s.remote.ListInvitations(ctx, eventID)
	if err != nil {
		return fmt.Errorf("list remote invitations of %s: %w", eventID, err)
	}
	localInvs, err := s.store.Invitations().ListByParent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("list local invitations of %s: %w", eventID, err)
	}
	have := idSet(localInvs, func(i *models.Invitation) string { return i.ID })
	for _, row := range invRows {
		if have[row.ID] || out.deleting[row.ID] {
			continue
		}
		inv, diags := schema.InvitationFromRow(row)
		s.logDiagnostics(ctx, row.ID, diags)
		out.invitations = append(out.invitations, inv)
		out.metas = append(out.metas, models.SyncMeta{EntityID: inv.ID, Kind: models.KindInvitation, ExistsRemote: true})
	}

	photoRows, err := s.remote.ListEventPhotos(ctx, eventID)
	if err != nil {
		return fmt.Errorf("list remote photos of %s: %w", eventID, err)
	}
	localPhotos, err := s.store.Photos().ListByParent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("list local photos of %s: %w", eventID, err)
	}
	have = idSet(localPhotos, func(p *models.EventPhoto) string { return p.ID })
	for _, row := range photoRows {
		if have[row.ID] || out.deleting[row.ID] {
			continue
		}
		p, diags := schema.EventPhotoFromRow(row)
		s.logDiagnostics(ctx, row.ID, diags)
		out.photos = append(out.photos, p)
		out.metas = append(out.metas, models.SyncMeta{EntityID: p.ID, Kind: models.KindPhoto, ExistsRemote: true, BlobURL: row.ImageURL})
	}
	return nil
}

func idSet[T any](items []*T, id func(*T) string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[id(it)] = true
	}
	return set
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
