package schema

import "github.com/dmitrijs2005/gatherly/internal/client/models"

// Wire names of the closed enums. Lookups go through these tables in both
// directions; an unknown remote value maps to the default of its enum.
var (
	eventTypes = map[models.EventType]string{
		models.EventTypeBirthday:    "birthday",
		models.EventTypeWedding:     "wedding",
		models.EventTypeBabyShower:  "baby_shower",
		models.EventTypeGraduation:  "graduation",
		models.EventTypeAnniversary: "anniversary",
		models.EventTypeParty:       "party",
		models.EventTypeHoliday:     "holiday",
		models.EventTypeOther:       "other",
	}
	invitationStatuses = map[models.InvitationStatus]string{
		models.InvitationPending:         "pending",
		models.InvitationAccepted:        "accepted",
		models.InvitationDeclined:        "declined",
		models.InvitationWaitingApproval: "waiting_approval",
	}
	wishlistCategories = map[models.WishlistCategory]string{
		models.CategoryElectronics: "electronics",
		models.CategoryFashion:     "fashion",
		models.CategoryHome:        "home",
		models.CategoryBooks:       "books",
		models.CategorySports:      "sports",
		models.CategoryBeauty:      "beauty",
		models.CategoryToys:        "toys",
		models.CategoryExperiences: "experiences",
		models.CategoryOther:       "other",
	}
	wishlistStatuses = map[models.WishlistStatus]string{
		models.WishlistWanted:    "wanted",
		models.WishlistReserved:  "reserved",
		models.WishlistPurchased: "purchased",
		models.WishlistReceived:  "received",
	}
	themes = map[models.Theme]string{
		models.ThemeSystem: "system",
		models.ThemeLight:  "light",
		models.ThemeDark:   "dark",
	}

	eventTypesByWire         = invert(eventTypes)
	invitationStatusesByWire = invert(invitationStatuses)
	wishlistCategoriesByWire = invert(wishlistCategories)
	wishlistStatusesByWire   = invert(wishlistStatuses)
	themesByWire             = invert(themes)
)

// Defaults used when a value is not in its table.
const (
	DefaultEventType        = models.EventTypeOther
	DefaultInvitationStatus = models.InvitationPending
	DefaultWishlistCategory = models.CategoryOther
	DefaultWishlistStatus   = models.WishlistWanted
	DefaultTheme            = models.ThemeSystem
)

func invert[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func toWire[K comparable](m map[K]string, v, def K) string {
	if s, ok := m[v]; ok {
		return s
	}
	return m[def]
}

func fromWire[K comparable](c *collector, field string, m map[string]K, s string, def K) K {
	if v, ok := m[s]; ok {
		return v
	}
	c.add(field, s, ErrUnknownEnum)
	return def
}

func EventTypeToWire(t models.EventType) string {
	return toWire(eventTypes, t, DefaultEventType)
}

func InvitationStatusToWire(s models.InvitationStatus) string {
	return toWire(invitationStatuses, s, DefaultInvitationStatus)
}

func WishlistCategoryToWire(c models.WishlistCategory) string {
	return toWire(wishlistCategories, c, DefaultWishlistCategory)
}

func WishlistStatusToWire(s models.WishlistStatus) string {
	return toWire(wishlistStatuses, s, DefaultWishlistStatus)
}

func ThemeToWire(t models.Theme) string {
	return toWire(themes, t, DefaultTheme)
}

// InvitationStatusFromWire maps a remote status; unknown values become
// pending with a diagnostic.
func InvitationStatusFromWire(s string) (models.InvitationStatus, Diagnostics) {
	c := &collector{table: TableInvitations}
	st := fromWire(c, "status", invitationStatusesByWire, s, DefaultInvitationStatus)
	return st, c.diags
}
