package schema

import "github.com/dmitrijs2005/gatherly/internal/client/models"

type InvitationRow struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id"`
	GuestName   string  `json:"guest_name"`
	GuestEmail  *string `json:"guest_email"`
	GuestPhone  *string `json:"guest_phone"`
	Status      string  `json:"status"`
	SentAt      string  `json:"sent_at"`
	RespondedAt *string `json:"responded_at"`
	Message     *string `json:"message"`
	PlusOnes    int     `json:"plus_ones"`
	ShareToken  *string `json:"share_token"`
	ShareURL    *string `json:"share_url"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// InvitationInsert omits the share token and url, both generated remotely.
// The contact back-reference has no remote column.
type InvitationInsert struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id"`
	GuestName   string  `json:"guest_name"`
	GuestEmail  *string `json:"guest_email,omitempty"`
	GuestPhone  *string `json:"guest_phone,omitempty"`
	Status      string  `json:"status"`
	SentAt      string  `json:"sent_at"`
	RespondedAt *string `json:"responded_at,omitempty"`
	Message     *string `json:"message,omitempty"`
	PlusOnes    int     `json:"plus_ones"`
}

func NewInvitationInsert(i *models.Invitation) InvitationInsert {
	return InvitationInsert{
		ID:          i.ID,
		EventID:     i.EventID,
		GuestName:   i.GuestName,
		GuestEmail:  i.GuestEmail,
		GuestPhone:  i.GuestPhone,
		Status:      InvitationStatusToWire(i.Status),
		SentAt:      FormatTimestamp(i.SentAt),
		RespondedAt: optTimestampString(i.RespondedAt),
		Message:     i.Message,
		PlusOnes:    i.PlusOnes,
	}
}

func InvitationFromRow(r InvitationRow) (*models.Invitation, Diagnostics) {
	c := &collector{table: TableInvitations}
	inv := &models.Invitation{
		ID:          r.ID,
		EventID:     r.EventID,
		GuestName:   r.GuestName,
		GuestEmail:  r.GuestEmail,
		GuestPhone:  r.GuestPhone,
		Status:      fromWire(c, "status", invitationStatusesByWire, r.Status, DefaultInvitationStatus),
		SentAt:      c.timestamp("sent_at", r.SentAt),
		RespondedAt: c.optTimestamp("responded_at", r.RespondedAt),
		Message:     r.Message,
		PlusOnes:    r.PlusOnes,
		ShareToken:  r.ShareToken,
		ShareURL:    r.ShareURL,
		CreatedAt:   c.timestamp("created_at", r.CreatedAt),
		UpdatedAt:   c.timestamp("updated_at", r.UpdatedAt),
	}
	if inv.PlusOnes < 0 {
		c.add("plus_ones", "", models.ErrInvalidPlusOnes)
		inv.PlusOnes = 0
	}
	return inv, c.diags
}

// MergeInvitationRow copies the server generated fields of an inserted row
// back onto the local invitation.
func MergeInvitationRow(local *models.Invitation, r InvitationRow) {
	if r.ShareToken != nil {
		local.ShareToken = r.ShareToken
	}
	if r.ShareURL != nil {
		local.ShareURL = r.ShareURL
	}
}
