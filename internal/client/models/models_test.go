package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInvitationStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to InvitationStatus
		ok       bool
	}{
		{InvitationPending, InvitationAccepted, true},
		{InvitationPending, InvitationDeclined, true},
		{InvitationPending, InvitationWaitingApproval, true},
		{InvitationWaitingApproval, InvitationAccepted, true},
		{InvitationWaitingApproval, InvitationDeclined, true},
		{InvitationWaitingApproval, InvitationPending, false},
		{InvitationAccepted, InvitationDeclined, false},
		{InvitationDeclined, InvitationAccepted, false},
		{InvitationPending, InvitationPending, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestInvitation_Respond(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	inv := NewInvitation("e1", "Ann", now)

	require.NoError(t, inv.Respond(InvitationWaitingApproval, 0, now.Add(time.Hour)))
	require.NoError(t, inv.Respond(InvitationAccepted, 2, now.Add(2*time.Hour)))
	require.Equal(t, 2, inv.PlusOnes)
	require.NotNil(t, inv.RespondedAt)
	require.Equal(t, now.Add(2*time.Hour), *inv.RespondedAt)

	require.ErrorIs(t, inv.Respond(InvitationDeclined, 0, now), ErrInvalidTransition)

	other := NewInvitation("e1", "Bob", now)
	require.ErrorIs(t, other.Respond(InvitationAccepted, -1, now), ErrInvalidPlusOnes)
	require.Equal(t, InvitationPending, other.Status)
}

func TestPriorityRanges(t *testing.T) {
	for p := 1; p <= 3; p++ {
		require.NoError(t, ValidatePriority(p))
		require.NoError(t, ValidateIntakePriority(p))
	}
	for _, p := range []int{4, 5} {
		require.NoError(t, ValidateIntakePriority(p))
		require.ErrorIs(t, ValidatePriority(p), ErrInvalidPriority, "intake priority %d is outside the wishlist range", p)
	}
	require.ErrorIs(t, ValidatePriority(0), ErrInvalidPriority)
	require.ErrorIs(t, ValidateIntakePriority(6), ErrInvalidPriority)
}

func TestWishlistItem_IsPersonal(t *testing.T) {
	now := time.Now()
	item := NewWishlistItem("u1", "Camera", now)
	require.True(t, item.IsPersonal("u1"))
	require.False(t, item.IsPersonal("u2"))

	eventID := "e1"
	item.EventID = &eventID
	require.False(t, item.IsPersonal("u1"))

	item.EventID = nil
	contact := "c1"
	item.ContactID = &contact
	require.False(t, item.IsPersonal("u1"))
}

func TestEvent_Validate(t *testing.T) {
	e := NewEvent("u1", EventTypeParty, "Housewarming", NewDate(2025, time.September, 1), time.Now())
	require.NoError(t, e.Validate())
	require.NotEmpty(t, e.ID)

	e.Title = "  "
	require.ErrorIs(t, e.Validate(), ErrEmptyTitle)

	e.Title = "ok"
	e.Date = Date{}
	require.ErrorIs(t, e.Validate(), ErrInvalidDate)
}
