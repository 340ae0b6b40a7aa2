package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
)

var eventTypes = []models.EventType{
	models.EventTypeBirthday, models.EventTypeWedding, models.EventTypeBabyShower,
	models.EventTypeGraduation, models.EventTypeAnniversary, models.EventTypeParty,
	models.EventTypeHoliday, models.EventTypeOther,
}

var responses = []models.InvitationStatus{
	models.InvitationAccepted, models.InvitationDeclined, models.InvitationWaitingApproval,
}

var categories = []models.WishlistCategory{
	models.CategoryElectronics, models.CategoryFashion, models.CategoryHome, models.CategoryBooks,
	models.CategorySports, models.CategoryBeauty, models.CategoryToys, models.CategoryExperiences,
	models.CategoryOther,
}

// choose matches s against options ignoring case, dashes and underscores,
// so "baby-shower" selects babyShower.
func choose[T ~string](what, s string, options []T) (T, error) {
	want := normalize(s)
	for _, o := range options {
		if normalize(string(o)) == want {
			return o, nil
		}
	}
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = string(o)
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q, expected one of: %s", what, s, strings.Join(names, ", "))
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "_", "")
}

// matchID picks the single item whose id starts with prefix.
func matchID[T any](what string, items []T, id func(T) string, prefix string) (T, error) {
	var (
		found T
		n     int
	)
	if prefix == "" {
		return found, fmt.Errorf("%s id is required", what)
	}
	for _, it := range items {
		v := id(it)
		if v == prefix {
			return it, nil
		}
		if strings.HasPrefix(v, prefix) {
			found = it
			n++
		}
	}
	switch n {
	case 0:
		var zero T
		return zero, fmt.Errorf("no %s matches %q", what, prefix)
	case 1:
		return found, nil
	default:
		var zero T
		return zero, fmt.Errorf("%q matches %d %ss, use a longer prefix", prefix, n, what)
	}
}
