package entities

import (
	"github.com/dmitrijs2005/gatherly/internal/client/models"
)

var eventTable = table[models.Event]{
	name: "events",
	columns: []string{"id", "owner_id", "type", "title", "description", "date", "time",
		"location_name", "location_address", "max_guests", "rsvp_deadline",
		"cover_image_path", "cover_image_url", "profile_image_url", "created_at", "updated_at"},
	args: func(e *models.Event) []any {
		return []any{e.ID, e.OwnerID, string(e.Type), e.Title, e.Description, e.Date, e.Time,
			e.LocationName, e.LocationAddress, e.MaxGuests, e.RSVPDeadline,
			e.CoverImagePath, e.CoverImageURL, e.ProfileImageURL, formatTime(e.CreatedAt), formatTime(e.UpdatedAt)}
	},
	scan: func(s scanner) (*models.Event, error) {
		var e models.Event
		var kind, created, updated string
		if err := s.Scan(&e.ID, &e.OwnerID, &kind, &e.Title, &e.Description, &e.Date, &e.Time,
			&e.LocationName, &e.LocationAddress, &e.MaxGuests, &e.RSVPDeadline,
			&e.CoverImagePath, &e.CoverImageURL, &e.ProfileImageURL, &created, &updated); err != nil {
			return nil, err
		}
		e.Type = models.EventType(kind)
		var err error
		if e.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if e.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		return &e, nil
	},
}

var invitationTable = table[models.Invitation]{
	name: "invitations",
	columns: []string{"id", "event_id", "guest_name", "guest_email", "guest_phone", "status",
		"sent_at", "responded_at", "message", "plus_ones", "contact_id", "share_token", "share_url",
		"created_at", "updated_at"},
	parent: "event_id",
	order:  "created_at, rowid",
	args: func(i *models.Invitation) []any {
		return []any{i.ID, i.EventID, i.GuestName, i.GuestEmail, i.GuestPhone, string(i.Status),
			formatTime(i.SentAt), formatOptTime(i.RespondedAt), i.Message, i.PlusOnes, i.ContactID,
			i.ShareToken, i.ShareURL, formatTime(i.CreatedAt), formatTime(i.UpdatedAt)}
	},
	scan: func(s scanner) (*models.Invitation, error) {
		var i models.Invitation
		var status, sent, created, updated string
		var responded *string
		if err := s.Scan(&i.ID, &i.EventID, &i.GuestName, &i.GuestEmail, &i.GuestPhone, &status,
			&sent, &responded, &i.Message, &i.PlusOnes, &i.ContactID, &i.ShareToken, &i.ShareURL,
			&created, &updated); err != nil {
			return nil, err
		}
		i.Status = models.InvitationStatus(status)
		var err error
		if i.SentAt, err = parseTime(sent); err != nil {
			return nil, err
		}
		if i.RespondedAt, err = parseOptTime(responded); err != nil {
			return nil, err
		}
		if i.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if i.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		return &i, nil
	},
}

var photoTable = table[models.EventPhoto]{
	name: "event_photos",
	columns: []string{"id", "event_id", "image_url", "local_path", "caption", "uploaded_by",
		"display_order", "uploaded_at", "created_at"},
	parent: "event_id",
	order:  "display_order, rowid",
	args: func(p *models.EventPhoto) []any {
		return []any{p.ID, p.EventID, p.ImageURL, p.LocalPath, p.Caption, p.UploadedBy,
			p.DisplayOrder, formatTime(p.UploadedAt), formatTime(p.CreatedAt)}
	},
	scan: func(s scanner) (*models.EventPhoto, error) {
		var p models.EventPhoto
		var uploaded, created string
		if err := s.Scan(&p.ID, &p.EventID, &p.ImageURL, &p.LocalPath, &p.Caption, &p.UploadedBy,
			&p.DisplayOrder, &uploaded, &created); err != nil {
			return nil, err
		}
		var err error
		if p.UploadedAt, err = parseTime(uploaded); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		return &p, nil
	},
}

var wishlistTable = table[models.WishlistItem]{
	name: "wishlist_items",
	columns: []string{"id", "owner_id", "event_id", "contact_id", "title", "description", "price",
		"url", "category", "status", "priority", "reserved_by", "image_path", "created_at", "updated_at"},
	parent: "event_id",
	order:  "priority, rowid",
	args: func(w *models.WishlistItem) []any {
		return []any{w.ID, w.OwnerID, w.EventID, w.ContactID, w.Title, w.Description, w.Price,
			w.URL, string(w.Category), string(w.Status), w.Priority, w.ReservedBy, w.ImagePath,
			formatTime(w.CreatedAt), formatTime(w.UpdatedAt)}
	},
	scan: func(s scanner) (*models.WishlistItem, error) {
		var w models.WishlistItem
		var category, status, created, updated string
		if err := s.Scan(&w.ID, &w.OwnerID, &w.EventID, &w.ContactID, &w.Title, &w.Description, &w.Price,
			&w.URL, &category, &status, &w.Priority, &w.ReservedBy, &w.ImagePath, &created, &updated); err != nil {
			return nil, err
		}
		w.Category = models.WishlistCategory(category)
		w.Status = models.WishlistStatus(status)
		var err error
		if w.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if w.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		return &w, nil
	},
}

var profileTable = table[models.UserProfile]{
	name: "user_profiles",
	columns: []string{"id", "first_name", "last_name", "birth_date", "phone", "street", "city",
		"postal_code", "country", "notifications_enabled", "theme", "onboarding_completed",
		"onboarding_step", "created_at", "updated_at"},
	args: func(p *models.UserProfile) []any {
		return []any{p.ID, p.FirstName, p.LastName, p.BirthDate, p.Phone, p.Street, p.City,
			p.PostalCode, p.Country, p.NotificationsEnabled, string(p.Theme), p.OnboardingCompleted,
			p.OnboardingStep, formatTime(p.CreatedAt), formatTime(p.UpdatedAt)}
	},
	scan: func(s scanner) (*models.UserProfile, error) {
		var p models.UserProfile
		var theme, created, updated string
		if err := s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Phone, &p.Street, &p.City,
			&p.PostalCode, &p.Country, &p.NotificationsEnabled, &theme, &p.OnboardingCompleted,
			&p.OnboardingStep, &created, &updated); err != nil {
			return nil, err
		}
		p.Theme = models.Theme(theme)
		var err error
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		return &p, nil
	},
}
