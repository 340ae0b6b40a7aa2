package models

import "time"

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// UserProfile shares its id with the auth account and is synced as a
// single record.
type UserProfile struct {
	ID                   string
	FirstName            string
	LastName             string
	BirthDate            *Date
	Phone                *string
	Street               *string
	City                 *string
	PostalCode           *string
	Country              *string
	NotificationsEnabled bool
	Theme                Theme
	OnboardingCompleted  bool
	OnboardingStep       int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
