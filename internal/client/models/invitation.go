package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvitationStatus is the RSVP lifecycle of an invitation.
type InvitationStatus string

const (
	InvitationPending         InvitationStatus = "pending"
	InvitationAccepted        InvitationStatus = "accepted"
	InvitationDeclined        InvitationStatus = "declined"
	InvitationWaitingApproval InvitationStatus = "waitingApproval"
)

var (
	ErrInvalidTransition = errors.New("invalid invitation status transition")
	ErrInvalidPlusOnes   = errors.New("plus-ones must not be negative")
)

// CanTransitionTo reports whether s may move to next. Pending may move to
// any other state, waiting-approval may still be accepted or declined, the
// rest are terminal.
func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	switch s {
	case InvitationPending:
		return next == InvitationAccepted || next == InvitationDeclined || next == InvitationWaitingApproval
	case InvitationWaitingApproval:
		return next == InvitationAccepted || next == InvitationDeclined
	default:
		return false
	}
}

type Invitation struct {
	ID          string
	EventID     string
	GuestName   string
	GuestEmail  *string
	GuestPhone  *string
	Status      InvitationStatus
	SentAt      time.Time
	RespondedAt *time.Time
	Message     *string
	PlusOnes    int
	// ContactID points at a device contact; the backend has no contacts
	// table so it is never sent.
	ContactID  *string
	ShareToken *string
	ShareURL   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewInvitation(eventID, guestName string, now time.Time) *Invitation {
	now = now.UTC()
	return &Invitation{
		ID:        uuid.NewString(),
		EventID:   eventID,
		GuestName: guestName,
		Status:    InvitationPending,
		SentAt:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (i *Invitation) Validate() error {
	if i.EventID == "" {
		return errors.New("invitation must belong to an event")
	}
	if i.GuestName == "" {
		return errors.New("guest name is required")
	}
	if i.PlusOnes < 0 {
		return ErrInvalidPlusOnes
	}
	return nil
}

// Respond records the guest's answer.
func (i *Invitation) Respond(status InvitationStatus, plusOnes int, at time.Time) error {
	if !i.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, status)
	}
	if plusOnes < 0 {
		return ErrInvalidPlusOnes
	}
	at = at.UTC()
	i.Status = status
	i.PlusOnes = plusOnes
	i.RespondedAt = &at
	i.UpdatedAt = at
	return nil
}
