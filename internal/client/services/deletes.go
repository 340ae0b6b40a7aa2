package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/gatherly/internal/common"
	"github.com/dmitrijs2005/gatherly/internal/logging"
)

func bucketFor(kind models.EntityKind) string {
	switch kind {
	case models.KindEvent:
		return common.BucketEventCovers
	case models.KindPhoto:
		return common.BucketEventPhotos
	case models.KindProfile:
		return common.BucketAvatars
	case models.KindWishlistItem:
		return common.BucketWishlistImages
	default:
		return ""
	}
}

func deleteRemote(ctx context.Context, remote client.Client, m models.SyncMeta) error {
	switch m.Kind {
	case models.KindEvent:
		return remote.DeleteEvent(ctx, m.EntityID)
	case models.KindInvitation:
		return remote.DeleteInvitation(ctx, m.EntityID)
	case models.KindPhoto:
		return remote.DeleteEventPhoto(ctx, m.EntityID)
	case models.KindWishlistItem:
		return remote.DeleteWishlistItem(ctx, m.EntityID)
	default:
		return fmt.Errorf("cannot delete %q records", m.Kind)
	}
}

func sendDeletes(ctx context.Context, remote client.Client, state syncstate.Store, log logging.Logger, kinds ...models.EntityKind) models.SyncReport {
	var report models.SyncReport

	pending, err := state.ListPendingDeletes(ctx)
	if err != nil {
		log.Error(ctx, "list pending deletes", "error", err)
		report.Failed++
		return report
	}

	for _, m := range pending {
		if !slices.Contains(kinds, m.Kind) {
			continue
		}
		if m.ExistsRemote {
			err := deleteRemote(ctx, remote, m)
			if err != nil && !errors.Is(err, client.ErrNotFound) {
				log.Error(ctx, "remote delete failed", "id", m.EntityID, "kind", m.Kind, "error", err)
				report.Failed++
				continue
			}
		}
		if m.BlobURL != "" {
			err := remote.DeleteBlobByURL(ctx, bucketFor(m.Kind), m.BlobURL)
			if err != nil && !errors.Is(err, client.ErrNotFound) {
				log.Warn(ctx, "blob delete failed", "id", m.EntityID, "url", m.BlobURL, "error", err)
			}
		}
		if err := state.Forget(ctx, m.EntityID); err != nil {
			log.Error(ctx, "forget deleted record", "id", m.EntityID, "error", err)
			report.Failed++
			continue
		}
		report.Deleted++
	}
	return report
}
