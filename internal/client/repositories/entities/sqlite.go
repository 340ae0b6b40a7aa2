package entities

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/dbx"
)

// SQLiteStore is the Store backed by the local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	q  dbx.DBTX
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, q: db}
}

func (s *SQLiteStore) Events() Repository[models.Event] {
	return newRepository(s.q, eventTable)
}

func (s *SQLiteStore) Invitations() ChildRepository[models.Invitation] {
	return newRepository(s.q, invitationTable)
}

func (s *SQLiteStore) Photos() ChildRepository[models.EventPhoto] {
	return newRepository(s.q, photoTable)
}

func (s *SQLiteStore) Wishlist() ChildRepository[models.WishlistItem] {
	return newRepository(s.q, wishlistTable)
}

func (s *SQLiteStore) Profiles() Repository[models.UserProfile] {
	return newRepository(s.q, profileTable)
}

func (s *SQLiteStore) InTx(ctx context.Context, fn func(ctx context.Context, st Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(ctx, s)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLiteStore{db: s.db, q: tx})
	})
}

var _ Store = (*SQLiteStore)(nil)
