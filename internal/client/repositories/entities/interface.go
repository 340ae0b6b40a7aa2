package entities

import (
	"context"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
)

// Repository is the typed access to one local entity table. GetByID
// returns common.ErrorNotFound for unknown ids.
type Repository[T any] interface {
	ListAll(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Upsert(ctx context.Context, v *T) error
	DeleteByID(ctx context.Context, id string) error
}

// ChildRepository adds listing by the owning event.
type ChildRepository[T any] interface {
	Repository[T]
	ListByParent(ctx context.Context, parentID string) ([]*T, error)
}

// Store groups the entity repositories. InTx runs fn against a store bound
// to a single transaction and commits only if fn succeeds.
type Store interface {
	Events() Repository[models.Event]
	Invitations() ChildRepository[models.Invitation]
	Photos() ChildRepository[models.EventPhoto]
	Wishlist() ChildRepository[models.WishlistItem]
	Profiles() Repository[models.UserProfile]

	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
