package schema

import "github.com/dmitrijs2005/gatherly/internal/client/models"

// EventRow is a record of the remote events table.
type EventRow struct {
	ID              string  `json:"id"`
	OwnerID         string  `json:"owner_id"`
	Type            string  `json:"type"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	Date            string  `json:"date"`
	Time            *string `json:"time"`
	LocationName    *string `json:"location_name"`
	LocationAddress *string `json:"location_address"`
	MaxGuests       *int    `json:"max_guests"`
	RSVPDeadline    *string `json:"rsvp_deadline"`
	CoverImageURL   *string `json:"cover_image_url"`
	ProfileImageURL *string `json:"profile_image_url"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// EventInsert carries the client-generated id; timestamps are set by the
// backend.
type EventInsert struct {
	ID              string  `json:"id"`
	OwnerID         string  `json:"owner_id"`
	Type            string  `json:"type"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	Date            string  `json:"date"`
	Time            *string `json:"time,omitempty"`
	LocationName    *string `json:"location_name,omitempty"`
	LocationAddress *string `json:"location_address,omitempty"`
	MaxGuests       *int    `json:"max_guests,omitempty"`
	RSVPDeadline    *string `json:"rsvp_deadline,omitempty"`
	CoverImageURL   *string `json:"cover_image_url,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// EventUpdate is a sparse update: unset fields are left untouched remotely.
type EventUpdate struct {
	Type            Optional[string] `json:"type,omitzero"`
	Title           Optional[string] `json:"title,omitzero"`
	Description     Optional[string] `json:"description,omitzero"`
	Date            Optional[string] `json:"date,omitzero"`
	Time            Optional[string] `json:"time,omitzero"`
	LocationName    Optional[string] `json:"location_name,omitzero"`
	LocationAddress Optional[string] `json:"location_address,omitzero"`
	MaxGuests       Optional[int]    `json:"max_guests,omitzero"`
	RSVPDeadline    Optional[string] `json:"rsvp_deadline,omitzero"`
	CoverImageURL   Optional[string] `json:"cover_image_url,omitzero"`
	ProfileImageURL Optional[string] `json:"profile_image_url,omitzero"`
}

func NewEventInsert(e *models.Event) EventInsert {
	return EventInsert{
		ID:              e.ID,
		OwnerID:         e.OwnerID,
		Type:            EventTypeToWire(e.Type),
		Title:           e.Title,
		Description:     e.Description,
		Date:            FormatDate(e.Date),
		Time:            optString(e.Time),
		LocationName:    e.LocationName,
		LocationAddress: e.LocationAddress,
		MaxGuests:       e.MaxGuests,
		RSVPDeadline:    optString(e.RSVPDeadline),
		CoverImageURL:   e.CoverImageURL,
		ProfileImageURL: e.ProfileImageURL,
	}
}

// NewEventUpdate sets every synchronized field, so the remote copy is
// replaced as a whole. Cleared optional fields are sent as null.
func NewEventUpdate(e *models.Event) EventUpdate {
	return EventUpdate{
		Type:            Set(EventTypeToWire(e.Type)),
		Title:           Set(e.Title),
		Description:     SetPtr(e.Description),
		Date:            Set(FormatDate(e.Date)),
		Time:            SetPtr(optString(e.Time)),
		LocationName:    SetPtr(e.LocationName),
		LocationAddress: SetPtr(e.LocationAddress),
		MaxGuests:       SetPtr(e.MaxGuests),
		RSVPDeadline:    SetPtr(optString(e.RSVPDeadline)),
		CoverImageURL:   SetPtr(e.CoverImageURL),
		ProfileImageURL: SetPtr(e.ProfileImageURL),
	}
}

// EventFromRow builds a local event from a remote row. A malformed required
// date leaves Date zero and is reported under the "date" field.
func EventFromRow(r EventRow) (*models.Event, Diagnostics) {
	c := &collector{table: TableEvents}
	e := &models.Event{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		Type:            fromWire(c, "type", eventTypesByWire, r.Type, DefaultEventType),
		Title:           r.Title,
		Description:     r.Description,
		Date:            c.date("date", r.Date),
		Time:            c.optTime("time", r.Time),
		LocationName:    r.LocationName,
		LocationAddress: r.LocationAddress,
		MaxGuests:       r.MaxGuests,
		RSVPDeadline:    c.optDate("rsvp_deadline", r.RSVPDeadline),
		CoverImageURL:   r.CoverImageURL,
		ProfileImageURL: r.ProfileImageURL,
		CreatedAt:       c.timestamp("created_at", r.CreatedAt),
		UpdatedAt:       c.timestamp("updated_at", r.UpdatedAt),
	}
	return e, c.diags
}

// ApplyEventRow copies the remote fields of r onto local, keeping fields that
// only exist locally such as the pending cover image path.
func ApplyEventRow(local *models.Event, r EventRow) Diagnostics {
	remote, diags := EventFromRow(r)
	if diags.Has("date") {
		remote.Date = local.Date
	}
	remote.CoverImagePath = local.CoverImagePath
	*local = *remote
	return diags
}
