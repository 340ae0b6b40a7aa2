package schema

import "github.com/dmitrijs2005/gatherly/internal/client/models"

// WishlistItemRow is a record of the remote wishlist_items table. Prices are
// integer cents remotely.
type WishlistItemRow struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	PriceInCents *int64  `json:"price_in_cents"`
	URL          *string `json:"url"`
	Category     string  `json:"category"`
	Status       string  `json:"status"`
	Priority     int     `json:"priority"`
	ReservedBy   *string `json:"reserved_by"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type WishlistItemInsert struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	PriceInCents *int64  `json:"price_in_cents,omitempty"`
	URL          *string `json:"url,omitempty"`
	Category     string  `json:"category"`
	Status       string  `json:"status"`
	Priority     int     `json:"priority"`
	ReservedBy   *string `json:"reserved_by,omitempty"`
}

type WishlistItemUpdate struct {
	Title        Optional[string] `json:"title,omitzero"`
	Description  Optional[string] `json:"description,omitzero"`
	PriceInCents Optional[int64]  `json:"price_in_cents,omitzero"`
	URL          Optional[string] `json:"url,omitzero"`
	Category     Optional[string] `json:"category,omitzero"`
	Status       Optional[string] `json:"status,omitzero"`
	Priority     Optional[int]    `json:"priority,omitzero"`
	ReservedBy   Optional[string] `json:"reserved_by,omitzero"`
}

func priceInCents(price *float64) *int64 {
	if price == nil {
		return nil
	}
	c := ToMinorUnits(*price)
	return &c
}

func NewWishlistItemInsert(w *models.WishlistItem) WishlistItemInsert {
	return WishlistItemInsert{
		ID:           w.ID,
		UserID:       w.OwnerID,
		Title:        w.Title,
		Description:  w.Description,
		PriceInCents: priceInCents(w.Price),
		URL:          w.URL,
		Category:     WishlistCategoryToWire(w.Category),
		Status:       WishlistStatusToWire(w.Status),
		Priority:     w.Priority,
		ReservedBy:   w.ReservedBy,
	}
}

func NewWishlistItemUpdate(w *models.WishlistItem) WishlistItemUpdate {
	return WishlistItemUpdate{
		Title:        Set(w.Title),
		Description:  SetPtr(w.Description),
		PriceInCents: SetPtr(priceInCents(w.Price)),
		URL:          SetPtr(w.URL),
		Category:     Set(WishlistCategoryToWire(w.Category)),
		Status:       Set(WishlistStatusToWire(w.Status)),
		Priority:     Set(w.Priority),
		ReservedBy:   SetPtr(w.ReservedBy),
	}
}

// WishlistItemFromRow converts a remote row. Remote rows are always personal
// items so EventID and ContactID stay nil. An out of range priority is kept
// as-is and reported.
func WishlistItemFromRow(r WishlistItemRow) (*models.WishlistItem, Diagnostics) {
	c := &collector{table: TableWishlistItems}
	w := &models.WishlistItem{
		ID:          r.ID,
		OwnerID:     r.UserID,
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Category:    fromWire(c, "category", wishlistCategoriesByWire, r.Category, DefaultWishlistCategory),
		Status:      fromWire(c, "status", wishlistStatusesByWire, r.Status, DefaultWishlistStatus),
		Priority:    r.Priority,
		ReservedBy:  r.ReservedBy,
		CreatedAt:   c.timestamp("created_at", r.CreatedAt),
		UpdatedAt:   c.timestamp("updated_at", r.UpdatedAt),
	}
	if r.PriceInCents != nil {
		p := FromMinorUnits(*r.PriceInCents)
		w.Price = &p
	}
	if err := models.ValidatePriority(r.Priority); err != nil {
		c.add("priority", "", err)
	}
	return w, c.diags
}

// ApplyWishlistItemRow refreshes local from a newer remote row, keeping the
// local image attachment.
func ApplyWishlistItemRow(local *models.WishlistItem, r WishlistItemRow) Diagnostics {
	remote, diags := WishlistItemFromRow(r)
	remote.ImagePath = local.ImagePath
	*local = *remote
	return diags
}
