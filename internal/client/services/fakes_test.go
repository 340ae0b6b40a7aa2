package services

import (
	"context"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/localdb"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/entities"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/gatherly/internal/client/schema"
	"github.com/stretchr/testify/require"
)

const account = "acc-1"

var localNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// ---- session ----

type fakeSession struct {
	account string
	authed  bool
}

func (s *fakeSession) IsAuthenticated() bool { return s.authed }
func (s *fakeSession) AccountID() string     { return s.account }
func (s *fakeSession) AccessToken() string {
	if s.authed {
		return "token"
	}
	return ""
}

// ---- blob source ----

type fakeBlobs map[string][]byte

func (b fakeBlobs) Read(path string) ([]byte, string, error) {
	data, ok := b[path]
	if !ok {
		return nil, "", os.ErrNotExist
	}
	return data, "image/jpeg", nil
}

// ---- remote ----

// fakeRemote is an in-memory backend honouring the same contract as the
// REST client: conflict on duplicate insert, not found on missing rows,
// server-assigned timestamps.
type fakeRemote struct {
	mu    sync.Mutex
	clock time.Time
	calls map[string]int
	// fail maps "Op" or "Op:id" to the error that call returns.
	fail map[string]error

	events      []schema.EventRow
	invitations []schema.InvitationRow
	photos      []schema.EventPhotoRow
	wishlist    []schema.WishlistItemRow
	profiles    map[string]schema.UserProfileRow
	blobs       map[string][]byte

	lastEventUpdate schema.EventUpdate
	lastWishUpdate  schema.WishlistItemUpdate
}

var _ client.Client = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		clock:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		calls:    map[string]int{},
		fail:     map[string]error{},
		profiles: map[string]schema.UserProfileRow{},
		blobs:    map[string][]byte{},
	}
}

func (f *fakeRemote) call(op, id string) error {
	f.calls[op]++
	if err, ok := f.fail[op+":"+id]; ok {
		return err
	}
	return f.fail[op]
}

func (f *fakeRemote) tick() string {
	f.clock = f.clock.Add(time.Second)
	return schema.FormatTimestamp(f.clock)
}

func (f *fakeRemote) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) event(id string) (schema.EventRow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.events, func(r schema.EventRow) bool { return r.ID == id })
	if i < 0 {
		return schema.EventRow{}, false
	}
	return f.events[i], true
}

func apply[T any](o schema.Optional[T], dst *T) {
	if v, ok := o.Get(); ok && v != nil {
		*dst = *v
	}
}

func applyPtr[T any](o schema.Optional[T], dst **T) {
	if v, ok := o.Get(); ok {
		*dst = v
	}
}

func (f *fakeRemote) ListEvents(ctx context.Context) ([]schema.EventRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListEvents", ""); err != nil {
		return nil, err
	}
	return slices.Clone(f.events), nil
}

func (f *fakeRemote) InsertEvent(ctx context.Context, e schema.EventInsert) (schema.EventRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertEvent", e.ID); err != nil {
		return schema.EventRow{}, err
	}
	if slices.ContainsFunc(f.events, func(r schema.EventRow) bool { return r.ID == e.ID }) {
		return schema.EventRow{}, client.ErrAlreadyExists
	}
	ts := f.tick()
	row := schema.EventRow{
		ID: e.ID, OwnerID: e.OwnerID, Type: e.Type, Title: e.Title, Description: e.Description,
		Date: e.Date, Time: e.Time, LocationName: e.LocationName, LocationAddress: e.LocationAddress,
		MaxGuests: e.MaxGuests, RSVPDeadline: e.RSVPDeadline, CoverImageURL: e.CoverImageURL,
		ProfileImageURL: e.ProfileImageURL, CreatedAt: ts, UpdatedAt: ts,
	}
	f.events = append(f.events, row)
	return row, nil
}

func (f *fakeRemote) UpdateEvent(ctx context.Context, id string, u schema.EventUpdate) (schema.EventRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateEvent", id); err != nil {
		return schema.EventRow{}, err
	}
	i := slices.IndexFunc(f.events, func(r schema.EventRow) bool { return r.ID == id })
	if i < 0 {
		return schema.EventRow{}, client.ErrNotFound
	}
	f.lastEventUpdate = u
	r := &f.events[i]
	apply(u.Type, &r.Type)
	apply(u.Title, &r.Title)
	applyPtr(u.Description, &r.Description)
	apply(u.Date, &r.Date)
	applyPtr(u.Time, &r.Time)
	applyPtr(u.LocationName, &r.LocationName)
	applyPtr(u.LocationAddress, &r.LocationAddress)
	applyPtr(u.MaxGuests, &r.MaxGuests)
	applyPtr(u.RSVPDeadline, &r.RSVPDeadline)
	applyPtr(u.CoverImageURL, &r.CoverImageURL)
	applyPtr(u.ProfileImageURL, &r.ProfileImageURL)
	r.UpdatedAt = f.tick()
	return *r, nil
}

// DeleteEvent cascades to invitations and photos like the real backend.
func (f *fakeRemote) DeleteEvent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteEvent", id); err != nil {
		return err
	}
	n := len(f.events)
	f.events = slices.DeleteFunc(f.events, func(r schema.EventRow) bool { return r.ID == id })
	if len(f.events) == n {
		return client.ErrNotFound
	}
	f.invitations = slices.DeleteFunc(f.invitations, func(r schema.InvitationRow) bool { return r.EventID == id })
	f.photos = slices.DeleteFunc(f.photos, func(r schema.EventPhotoRow) bool { return r.EventID == id })
	return nil
}

func (f *fakeRemote) ListInvitations(ctx context.Context, eventID string) ([]schema.InvitationRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListInvitations", eventID); err != nil {
		return nil, err
	}
	var out []schema.InvitationRow
	for _, r := range f.invitations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemote) InsertInvitation(ctx context.Context, i schema.InvitationInsert) (schema.InvitationRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertInvitation", i.ID); err != nil {
		return schema.InvitationRow{}, err
	}
	if slices.ContainsFunc(f.invitations, func(r schema.InvitationRow) bool { return r.ID == i.ID }) {
		return schema.InvitationRow{}, client.ErrAlreadyExists
	}
	ts := f.tick()
	row := schema.InvitationRow{
		ID: i.ID, EventID: i.EventID, GuestName: i.GuestName, GuestEmail: i.GuestEmail,
		GuestPhone: i.GuestPhone, Status: i.Status, SentAt: i.SentAt, RespondedAt: i.RespondedAt,
		Message: i.Message, PlusOnes: i.PlusOnes,
		ShareToken: ptr("tok-" + i.ID), ShareURL: ptr("https://gatherly.test/i/tok-" + i.ID),
		CreatedAt: ts, UpdatedAt: ts,
	}
	f.invitations = append(f.invitations, row)
	return row, nil
}

func (f *fakeRemote) DeleteInvitation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteInvitation", id); err != nil {
		return err
	}
	n := len(f.invitations)
	f.invitations = slices.DeleteFunc(f.invitations, func(r schema.InvitationRow) bool { return r.ID == id })
	if len(f.invitations) == n {
		return client.ErrNotFound
	}
	return nil
}

func (f *fakeRemote) ListEventPhotos(ctx context.Context, eventID string) ([]schema.EventPhotoRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListEventPhotos", eventID); err != nil {
		return nil, err
	}
	var out []schema.EventPhotoRow
	for _, r := range f.photos {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemote) InsertEventPhoto(ctx context.Context, p schema.EventPhotoInsert) (schema.EventPhotoRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertEventPhoto", p.ID); err != nil {
		return schema.EventPhotoRow{}, err
	}
	if slices.ContainsFunc(f.photos, func(r schema.EventPhotoRow) bool { return r.ID == p.ID }) {
		return schema.EventPhotoRow{}, client.ErrAlreadyExists
	}
	row := schema.EventPhotoRow{
		ID: p.ID, EventID: p.EventID, ImageURL: p.ImageURL, Caption: p.Caption, UploadedBy: p.UploadedBy,
		DisplayOrder: p.DisplayOrder, UploadedAt: p.UploadedAt, CreatedAt: f.tick(),
	}
	f.photos = append(f.photos, row)
	return row, nil
}

func (f *fakeRemote) DeleteEventPhoto(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteEventPhoto", id); err != nil {
		return err
	}
	n := len(f.photos)
	f.photos = slices.DeleteFunc(f.photos, func(r schema.EventPhotoRow) bool { return r.ID == id })
	if len(f.photos) == n {
		return client.ErrNotFound
	}
	return nil
}

func (f *fakeRemote) ListWishlistItems(ctx context.Context) ([]schema.WishlistItemRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListWishlistItems", ""); err != nil {
		return nil, err
	}
	return slices.Clone(f.wishlist), nil
}

func (f *fakeRemote) InsertWishlistItem(ctx context.Context, w schema.WishlistItemInsert) (schema.WishlistItemRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("InsertWishlistItem", w.ID); err != nil {
		return schema.WishlistItemRow{}, err
	}
	if slices.ContainsFunc(f.wishlist, func(r schema.WishlistItemRow) bool { return r.ID == w.ID }) {
		return schema.WishlistItemRow{}, client.ErrAlreadyExists
	}
	ts := f.tick()
	row := schema.WishlistItemRow{
		ID: w.ID, UserID: w.UserID, Title: w.Title, Description: w.Description, PriceInCents: w.PriceInCents,
		URL: w.URL, Category: w.Category, Status: w.Status, Priority: w.Priority, ReservedBy: w.ReservedBy,
		CreatedAt: ts, UpdatedAt: ts,
	}
	f.wishlist = append(f.wishlist, row)
	return row, nil
}

func (f *fakeRemote) UpdateWishlistItem(ctx context.Context, id string, u schema.WishlistItemUpdate) (schema.WishlistItemRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateWishlistItem", id); err != nil {
		return schema.WishlistItemRow{}, err
	}
	i := slices.IndexFunc(f.wishlist, func(r schema.WishlistItemRow) bool { return r.ID == id })
	if i < 0 {
		return schema.WishlistItemRow{}, client.ErrNotFound
	}
	f.lastWishUpdate = u
	r := &f.wishlist[i]
	apply(u.Title, &r.Title)
	applyPtr(u.Description, &r.Description)
	applyPtr(u.PriceInCents, &r.PriceInCents)
	applyPtr(u.URL, &r.URL)
	apply(u.Category, &r.Category)
	apply(u.Status, &r.Status)
	apply(u.Priority, &r.Priority)
	applyPtr(u.ReservedBy, &r.ReservedBy)
	r.UpdatedAt = f.tick()
	return *r, nil
}

func (f *fakeRemote) DeleteWishlistItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteWishlistItem", id); err != nil {
		return err
	}
	n := len(f.wishlist)
	f.wishlist = slices.DeleteFunc(f.wishlist, func(r schema.WishlistItemRow) bool { return r.ID == id })
	if len(f.wishlist) == n {
		return client.ErrNotFound
	}
	return nil
}

func (f *fakeRemote) GetProfile(ctx context.Context, id string) (schema.UserProfileRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetProfile", id); err != nil {
		return schema.UserProfileRow{}, err
	}
	p, ok := f.profiles[id]
	if !ok {
		return schema.UserProfileRow{}, client.ErrNotFound
	}
	return p, nil
}

func (f *fakeRemote) UpsertProfile(ctx context.Context, p schema.UserProfileUpsert) (schema.UserProfileRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpsertProfile", p.ID); err != nil {
		return schema.UserProfileRow{}, err
	}
	ts := f.tick()
	created := ts
	if old, ok := f.profiles[p.ID]; ok {
		created = old.CreatedAt
	}
	row := schema.UserProfileRow{
		ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, BirthDate: p.BirthDate, Phone: p.Phone,
		Street: p.Street, City: p.City, PostalCode: p.PostalCode, Country: p.Country,
		NotificationsEnabled: p.NotificationsEnabled, Theme: p.Theme,
		OnboardingCompleted: p.OnboardingCompleted, OnboardingStep: p.OnboardingStep,
		CreatedAt: created, UpdatedAt: ts,
	}
	f.profiles[p.ID] = row
	return row, nil
}

func (f *fakeRemote) UploadBlob(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UploadBlob", name); err != nil {
		return "", err
	}
	f.blobs[bucket+"/"+name] = data
	return "https://storage.test/storage/v1/object/public/" + bucket + "/" + name, nil
}

func (f *fakeRemote) DeleteBlobByURL(ctx context.Context, bucket, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, err := client.BlobNameFromURL(url)
	if err != nil {
		return err
	}
	if err := f.call("DeleteBlobByURL", name); err != nil {
		return err
	}
	if _, ok := f.blobs[bucket+"/"+name]; !ok {
		return client.ErrNotFound
	}
	delete(f.blobs, bucket+"/"+name)
	return nil
}

func (f *fakeRemote) blob(bucket, name string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blobs[bucket+"/"+name]
	return b, ok
}

// ---- harness ----

type harness struct {
	remote  *fakeRemote
	store   *entities.SQLiteStore
	state   *syncstate.SQLiteStore
	session *fakeSession
	blobs   fakeBlobs
	latch   *Latch
	events  EventService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	edb, err := localdb.OpenEntities(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = edb.Close() })
	sdb, err := localdb.OpenSyncState(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sdb.Close() })

	h := &harness{
		remote:  newFakeRemote(),
		store:   entities.NewSQLiteStore(edb),
		state:   syncstate.NewSQLiteStore(sdb),
		session: &fakeSession{account: account, authed: true},
		blobs:   fakeBlobs{},
		latch:   &Latch{},
	}
	h.events = NewEventService(h.store, h.state, h.session, nil)
	return h
}

func (h *harness) deps() SyncDeps {
	return SyncDeps{
		Remote:  h.remote,
		Store:   h.store,
		State:   h.state,
		Session: h.session,
		Blobs:   h.blobs,
		Latch:   h.latch,
		Now:     func() time.Time { return localNow.Add(time.Hour) },
	}
}

func (h *harness) sync() SyncService { return NewSyncService(h.deps()) }
