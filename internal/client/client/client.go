package client

import (
	"context"

	"github.com/dmitrijs2005/gatherly/internal/client/schema"
)

// Session is the authentication signal consulted before every remote call.
type Session interface {
	IsAuthenticated() bool
	AccountID() string
	AccessToken() string
}

// Client is the typed view of the remote table and storage backend.
// Listing returns the whole result set; there is no pagination.
type Client interface {
	ListEvents(ctx context.Context) ([]schema.EventRow, error)
	InsertEvent(ctx context.Context, e schema.EventInsert) (schema.EventRow, error)
	UpdateEvent(ctx context.Context, id string, u schema.EventUpdate) (schema.EventRow, error)
	DeleteEvent(ctx context.Context, id string) error

	ListInvitations(ctx context.Context, eventID string) ([]schema.InvitationRow, error)
	InsertInvitation(ctx context.Context, i schema.InvitationInsert) (schema.InvitationRow, error)
	DeleteInvitation(ctx context.Context, id string) error

	ListEventPhotos(ctx context.Context, eventID string) ([]schema.EventPhotoRow, error)
	InsertEventPhoto(ctx context.Context, p schema.EventPhotoInsert) (schema.EventPhotoRow, error)
	DeleteEventPhoto(ctx context.Context, id string) error

	ListWishlistItems(ctx context.Context) ([]schema.WishlistItemRow, error)
	InsertWishlistItem(ctx context.Context, w schema.WishlistItemInsert) (schema.WishlistItemRow, error)
	UpdateWishlistItem(ctx context.Context, id string, u schema.WishlistItemUpdate) (schema.WishlistItemRow, error)
	DeleteWishlistItem(ctx context.Context, id string) error

	GetProfile(ctx context.Context, id string) (schema.UserProfileRow, error)
	UpsertProfile(ctx context.Context, p schema.UserProfileUpsert) (schema.UserProfileRow, error)

	BlobStore
}

// BlobStore stores raw bytes under a bucket and hands back a public URL.
type BlobStore interface {
	UploadBlob(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error)
	// DeleteBlobByURL derives the object name from the last path segment of
	// url. It breaks if the public URL scheme ever nests object names.
	DeleteBlobByURL(ctx context.Context, bucket, url string) error
}

// Token is what the auth endpoints hand back.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Token, error)
	SignUp(ctx context.Context, email, password string) (Token, error)
}
