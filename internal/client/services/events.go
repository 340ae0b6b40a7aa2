package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/entities"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/gatherly/internal/logging"
)

// EventService is the local authoring surface. It only touches the local
// stores; changes reach the backend on the next sync.
type EventService interface {
	ListEvents(ctx context.Context) ([]*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
	UpdateEvent(ctx context.Context, e *models.Event) error
	SetCoverImage(ctx context.Context, eventID, path string) error
	RemoveEvent(ctx context.Context, id string) error

	ListInvitations(ctx context.Context, eventID string) ([]*models.Invitation, error)
	AddInvitation(ctx context.Context, inv *models.Invitation) error
	RespondInvitation(ctx context.Context, id string, status models.InvitationStatus, plusOnes int) error
	RemoveInvitation(ctx context.Context, id string) error

	ListPhotos(ctx context.Context, eventID string) ([]*models.EventPhoto, error)
	AddPhoto(ctx context.Context, eventID, localPath string, caption *string) (*models.EventPhoto, error)
	RemovePhoto(ctx context.Context, id string) error

	ListWishlist(ctx context.Context) ([]*models.WishlistItem, error)
	AddWishlistItem(ctx context.Context, it *models.WishlistItem) error
	RemoveWishlistItem(ctx context.Context, id string) error
}

type eventService struct {
	store   entities.Store
	state   syncstate.Store
	session client.Session
	log     logging.Logger
	now     func() time.Time
}

func NewEventService(store entities.Store, state syncstate.Store, session client.Session, log logging.Logger) EventService {
	if log == nil {
		log = logging.NewNop()
	}
	return &eventService{store: store, state: state, session: session, log: log.With("module", "events"), now: time.Now}
}

func (s *eventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return s.store.Events().ListAll(ctx)
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.store.Events().GetByID(ctx, id)
}

func (s *eventService) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.OwnerID == "" && s.session != nil {
		e.OwnerID = s.session.AccountID()
	}
	if err := e.Validate(); err != nil {
		return err
	}
	return s.store.Events().Upsert(ctx, e)
}

func (s *eventService) UpdateEvent(ctx context.Context, e *models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.store.Events().GetByID(ctx, e.ID); err != nil {
		return err
	}
	e.Touch(s.now())
	return s.store.Events().Upsert(ctx, e)
}

// SetCoverImage stages a local file; the next push uploads it and replaces
// the cover URL.
func (s *eventService) SetCoverImage(ctx context.Context, eventID, path string) error {
	e, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	e.CoverImagePath = &path
	e.Touch(s.now())
	return s.store.Events().Upsert(ctx, e)
}

// RemoveEvent deletes the event and, through the local cascade, its
// dependents. The remote deletes of the event and of its photos (with their
// blobs) are recorded for the next push.
func (s *eventService) RemoveEvent(ctx context.Context, id string) error {
	photos, err := s.store.Photos().ListByParent(ctx, id)
	if err != nil {
		return err
	}
	invitations, err := s.store.Invitations().ListByParent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Events().DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := s.markDeleted(ctx, id, models.KindEvent); err != nil {
		return err
	}
	for _, p := range photos {
		if err := s.markDeleted(ctx, p.ID, models.KindPhoto); err != nil {
			return err
		}
	}
	// Remote invitations go with their event.
	for _, inv := range invitations {
		if err := s.state.Forget(ctx, inv.ID); err != nil {
			return err
		}
	}
	return nil
}

// markDeleted turns the sync record into a pending delete when something
// exists remotely, and drops it otherwise.
func (s *eventService) markDeleted(ctx context.Context, id string, kind models.EntityKind) error {
	m, ok, err := s.state.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok || (!m.ExistsRemote && m.BlobURL == "") {
		return s.state.Forget(ctx, id)
	}
	m.Kind = kind
	m.PendingDelete = true
	if err := s.state.Put(ctx, m); err != nil {
		return fmt.Errorf("record pending delete: %w", err)
	}
	s.log.Debug(ctx, "pending remote delete recorded", "id", id, "kind", kind)
	return nil
}

func (s *eventService) ListInvitations(ctx context.Context, eventID string) ([]*models.Invitation, error) {
	return s.store.Invitations().ListByParent(ctx, eventID)
}

func (s *eventService) AddInvitation(ctx context.Context, inv *models.Invitation) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if _, err := s.store.Events().GetByID(ctx, inv.EventID); err != nil {
		return fmt.Errorf("event %s: %w", inv.EventID, err)
	}
	return s.store.Invitations().Upsert(ctx, inv)
}

// RespondInvitation records the answer locally. Invitations are created
// remotely once and never updated afterwards.
func (s *eventService) RespondInvitation(ctx context.Context, id string, status models.InvitationStatus, plusOnes int) error {
	inv, err := s.store.Invitations().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := inv.Respond(status, plusOnes, s.now()); err != nil {
		return err
	}
	return s.store.Invitations().Upsert(ctx, inv)
}

func (s *eventService) RemoveInvitation(ctx context.Context, id string) error {
	if err := s.store.Invitations().DeleteByID(ctx, id); err != nil {
		return err
	}
	return s.markDeleted(ctx, id, models.KindInvitation)
}

func (s *eventService) ListPhotos(ctx context.Context, eventID string) ([]*models.EventPhoto, error) {
	return s.store.Photos().ListByParent(ctx, eventID)
}

// AddPhoto appends a photo after the last one of the event.
func (s *eventService) AddPhoto(ctx context.Context, eventID, localPath string, caption *string) (*models.EventPhoto, error) {
	var p *models.EventPhoto
	err := s.store.InTx(ctx, func(ctx context.Context, tx entities.Store) error {
		if _, err := tx.Events().GetByID(ctx, eventID); err != nil {
			return fmt.Errorf("event %s: %w", eventID, err)
		}
		existing, err := tx.Photos().ListByParent(ctx, eventID)
		if err != nil {
			return err
		}
		next := 0
		for _, e := range existing {
			if e.DisplayOrder >= next {
				next = e.DisplayOrder + 1
			}
		}
		p = models.NewEventPhoto(eventID, localPath, next, s.now())
		p.Caption = caption
		if s.session != nil && s.session.AccountID() != "" {
			by := s.session.AccountID()
			p.UploadedBy = &by
		}
		return tx.Photos().Upsert(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *eventService) RemovePhoto(ctx context.Context, id string) error {
	if err := s.store.Photos().DeleteByID(ctx, id); err != nil {
		return err
	}
	return s.markDeleted(ctx, id, models.KindPhoto)
}

func (s *eventService) ListWishlist(ctx context.Context) ([]*models.WishlistItem, error) {
	return s.store.Wishlist().ListAll(ctx)
}

func (s *eventService) AddWishlistItem(ctx context.Context, it *models.WishlistItem) error {
	if it.OwnerID == "" && s.session != nil {
		it.OwnerID = s.session.AccountID()
	}
	if err := it.Validate(); err != nil {
		return err
	}
	if it.EventID != nil {
		if _, err := s.store.Events().GetByID(ctx, *it.EventID); err != nil {
			return fmt.Errorf("event %s: %w", *it.EventID, err)
		}
	}
	return s.store.Wishlist().Upsert(ctx, it)
}

func (s *eventService) RemoveWishlistItem(ctx context.Context, id string) error {
	if err := s.store.Wishlist().DeleteByID(ctx, id); err != nil {
		return err
	}
	return s.markDeleted(ctx, id, models.KindWishlistItem)
}

