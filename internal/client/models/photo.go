package models

import (
	"time"

	"github.com/google/uuid"
)

// EventPhoto is pushed only once ImageURL is resolved; LocalPath holds the
// bytes until the upload happened.
type EventPhoto struct {
	ID           string
	EventID      string
	ImageURL     *string
	LocalPath    *string
	Caption      *string
	UploadedBy   *string
	DisplayOrder int
	UploadedAt   time.Time
	CreatedAt    time.Time
}

func NewEventPhoto(eventID, localPath string, order int, now time.Time) *EventPhoto {
	now = now.UTC()
	return &EventPhoto{
		ID:           uuid.NewString(),
		EventID:      eventID,
		LocalPath:    &localPath,
		DisplayOrder: order,
		UploadedAt:   now,
		CreatedAt:    now,
	}
}
