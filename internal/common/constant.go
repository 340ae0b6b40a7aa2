package common

const (
	// AuthorizationHeaderName carries the bearer access token.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the token in AuthorizationHeaderName.
	BearerPrefix = "Bearer "
	// PreferHeaderName selects representation/upsert behaviour on table writes.
	PreferHeaderName = "Prefer"

	PreferReturnRepresentation = "return=representation"
	PreferMergeDuplicates      = "resolution=merge-duplicates"
)

// HealthServiceName is the gRPC health service the backend reports under.
const HealthServiceName = "gatherly"

// Remote table names.
const (
	TableEvents        = "events"
	TableInvitations   = "invitations"
	TableWishlistItems = "wishlist_items"
	TableEventPhotos   = "event_photos"
	TableUserProfiles  = "user_profiles"
)

// Storage buckets, one per asset class.
const (
	BucketEventCovers    = "event-covers"
	BucketEventPhotos    = "event-photos"
	BucketAvatars        = "avatars"
	BucketWishlistImages = "wishlist-images"
)

// Buckets lists every storage bucket the backend accepts.
var Buckets = []string{BucketEventCovers, BucketEventPhotos, BucketAvatars, BucketWishlistImages}
