package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an event. Values are local names; the wire names
// live in the schema adapters.
type EventType string

const (
	EventTypeBirthday    EventType = "birthday"
	EventTypeWedding     EventType = "wedding"
	EventTypeBabyShower  EventType = "babyShower"
	EventTypeGraduation  EventType = "graduation"
	EventTypeAnniversary EventType = "anniversary"
	EventTypeParty       EventType = "party"
	EventTypeHoliday     EventType = "holiday"
	EventTypeOther       EventType = "other"
)

var ErrEmptyTitle = errors.New("title is required")

// Event is the top-level synchronized entity. It owns invitations, photos
// and event-scoped wishlist items.
type Event struct {
	ID              string
	OwnerID         string
	Type            EventType
	Title           string
	Description     *string
	Date            Date
	Time            *TimeOfDay
	LocationName    *string
	LocationAddress *string
	MaxGuests       *int
	RSVPDeadline    *Date
	// CoverImagePath is a local file waiting to be uploaded; it never
	// leaves the device.
	CoverImagePath  *string
	CoverImageURL   *string
	ProfileImageURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewEvent creates an event with a client-generated id. The id is sent
// as-is on the first push.
func NewEvent(ownerID string, kind EventType, title string, date Date, now time.Time) *Event {
	return &Event{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Type:      kind,
		Title:     title,
		Date:      date,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.MaxGuests != nil && *e.MaxGuests < 0 {
		return errors.New("max guests must not be negative")
	}
	return nil
}

// Touch bumps UpdatedAt; every local mutation must call it so pull can
// compare against the remote updated_at.
func (e *Event) Touch(now time.Time) {
	e.UpdatedAt = now.UTC()
}
