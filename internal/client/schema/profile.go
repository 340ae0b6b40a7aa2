package schema

import "github.com/dmitrijs2005/gatherly/internal/client/models"

type UserProfileRow struct {
	ID                   string  `json:"id"`
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	BirthDate            *string `json:"birth_date"`
	Phone                *string `json:"phone"`
	Street               *string `json:"street"`
	City                 *string `json:"city"`
	PostalCode           *string `json:"postal_code"`
	Country              *string `json:"country"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
	Theme                string  `json:"theme"`
	OnboardingCompleted  bool    `json:"onboarding_completed"`
	OnboardingStep       int     `json:"onboarding_step"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

// UserProfileUpsert is the whole profile keyed by the account id. Optional
// fields are always present so an upsert can clear them.
type UserProfileUpsert struct {
	ID                   string  `json:"id"`
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	BirthDate            *string `json:"birth_date"`
	Phone                *string `json:"phone"`
	Street               *string `json:"street"`
	City                 *string `json:"city"`
	PostalCode           *string `json:"postal_code"`
	Country              *string `json:"country"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
	Theme                string  `json:"theme"`
	OnboardingCompleted  bool    `json:"onboarding_completed"`
	OnboardingStep       int     `json:"onboarding_step"`
}

func NewUserProfileUpsert(p *models.UserProfile) UserProfileUpsert {
	return UserProfileUpsert{
		ID:                   p.ID,
		FirstName:            p.FirstName,
		LastName:             p.LastName,
		BirthDate:            optString(p.BirthDate),
		Phone:                p.Phone,
		Street:               p.Street,
		City:                 p.City,
		PostalCode:           p.PostalCode,
		Country:              p.Country,
		NotificationsEnabled: p.NotificationsEnabled,
		Theme:                ThemeToWire(p.Theme),
		OnboardingCompleted:  p.OnboardingCompleted,
		OnboardingStep:       p.OnboardingStep,
	}
}

func UserProfileFromRow(r UserProfileRow) (*models.UserProfile, Diagnostics) {
	c := &collector{table: TableUserProfiles}
	return &models.UserProfile{
		ID:                   r.ID,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		BirthDate:            c.optDate("birth_date", r.BirthDate),
		Phone:                r.Phone,
		Street:               r.Street,
		City:                 r.City,
		PostalCode:           r.PostalCode,
		Country:              r.Country,
		NotificationsEnabled: r.NotificationsEnabled,
		Theme:                fromWire(c, "theme", themesByWire, r.Theme, DefaultTheme),
		OnboardingCompleted:  r.OnboardingCompleted,
		OnboardingStep:       r.OnboardingStep,
		CreatedAt:            c.timestamp("created_at", r.CreatedAt),
		UpdatedAt:            c.timestamp("updated_at", r.UpdatedAt),
	}, c.diags
}
