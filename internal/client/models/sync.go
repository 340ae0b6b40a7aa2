package models

import "time"

// EntityKind names the remote table family a SyncMeta belongs to.
type EntityKind string

const (
	KindEvent        EntityKind = "event"
	KindInvitation   EntityKind = "invitation"
	KindPhoto        EntityKind = "photo"
	KindWishlistItem EntityKind = "wishlist_item"
	KindProfile      EntityKind = "profile"
)

// SyncMeta is the per-entity bookkeeping record kept outside the entity
// store.
type SyncMeta struct {
	EntityID     string
	Kind         EntityKind
	ExistsRemote bool
	// LastPushedHash is the content hash of the last payload the backend
	// accepted; an equal hash means there is nothing to update.
	LastPushedHash string
	// PendingDelete marks a locally removed entity whose remote row still
	// has to be deleted.
	PendingDelete bool
	// BlobURL is the uploaded asset to delete together with the row.
	BlobURL   string
	UpdatedAt time.Time
}

type SyncPhase string

const (
	SyncIdle      SyncPhase = "idle"
	SyncPulling   SyncPhase = "pulling"
	SyncPushing   SyncPhase = "pushing"
	SyncCompleted SyncPhase = "completed"
	SyncError     SyncPhase = "error"
)

// SyncStatus is the coarse state shown to the user.
type SyncStatus struct {
	Phase      SyncPhase
	Message    string
	LastSyncAt *time.Time
}

// SyncReport counts what one sync run did. Skipped is set when the run was
// a no-op because another sync was in flight or there was no session.
type SyncReport struct {
	Skipped   bool
	Pulled    int
	Refreshed int
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	Failed    int
}

func (r *SyncReport) Add(o SyncReport) {
	r.Pulled += o.Pulled
	r.Refreshed += o.Refreshed
	r.Created += o.Created
	r.Updated += o.Updated
	r.Unchanged += o.Unchanged
	r.Deleted += o.Deleted
	r.Failed += o.Failed
}
