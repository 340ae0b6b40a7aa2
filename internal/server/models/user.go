// Package models holds the server-side records that are not plain table rows.
package models

import "time"

// User is an account able to obtain access tokens.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
