package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type WishlistCategory string

const (
	CategoryElectronics WishlistCategory = "electronics"
	CategoryFashion     WishlistCategory = "fashion"
	CategoryHome        WishlistCategory = "home"
	CategoryBooks       WishlistCategory = "books"
	CategorySports      WishlistCategory = "sports"
	CategoryBeauty      WishlistCategory = "beauty"
	CategoryToys        WishlistCategory = "toys"
	CategoryExperiences WishlistCategory = "experiences"
	CategoryOther       WishlistCategory = "other"
)

type WishlistStatus string

const (
	WishlistWanted    WishlistStatus = "wanted"
	WishlistReserved  WishlistStatus = "reserved"
	WishlistPurchased WishlistStatus = "purchased"
	WishlistReceived  WishlistStatus = "received"
)

// Priority ranges. The share-intake path accepts a wider range than the
// wishlist itself; values are never clamped between the two.
const (
	MinPriority       = 1
	MaxPriority       = 3
	MaxIntakePriority = 5
)

var ErrInvalidPriority = errors.New("invalid priority")

func ValidatePriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidPriority, p, MinPriority, MaxPriority)
	}
	return nil
}

func ValidateIntakePriority(p int) error {
	if p < MinPriority || p > MaxIntakePriority {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidPriority, p, MinPriority, MaxIntakePriority)
	}
	return nil
}

type WishlistItem struct {
	ID          string
	OwnerID     string
	EventID     *string
	ContactID   *string
	Title       string
	Description *string
	// Price is in major currency units; the backend stores minor units.
	Price      *float64
	URL        *string
	Category   WishlistCategory
	Status     WishlistStatus
	Priority   int
	ReservedBy *string
	// ImagePath is a local-only attachment and is never synchronized.
	ImagePath *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewWishlistItem(ownerID, title string, now time.Time) *WishlistItem {
	now = now.UTC()
	return &WishlistItem{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Category:  CategoryOther,
		Status:    WishlistWanted,
		Priority:  2,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsPersonal reports whether the item belongs to the account's own
// wishlist. Only personal items are synchronized.
func (w *WishlistItem) IsPersonal(accountID string) bool {
	return w.OwnerID == accountID && w.EventID == nil && w.ContactID == nil
}

func (w *WishlistItem) Validate() error {
	if w.Title == "" {
		return ErrEmptyTitle
	}
	if w.Price != nil && *w.Price < 0 {
		return errors.New("price must not be negative")
	}
	return ValidatePriority(w.Priority)
}
