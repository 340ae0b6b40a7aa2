package schema

import "github.com/dmitrijs2005/gatherly/internal/client/models"

type EventPhotoRow struct {
	ID           string  `json:"id"`
	EventID      string  `json:"event_id"`
	ImageURL     string  `json:"image_url"`
	Caption      *string `json:"caption"`
	UploadedBy   *string `json:"uploaded_by"`
	DisplayOrder int     `json:"display_order"`
	UploadedAt   string  `json:"uploaded_at"`
	CreatedAt    string  `json:"created_at"`
}

type EventPhotoInsert struct {
	ID           string  `json:"id"`
	EventID      string  `json:"event_id"`
	ImageURL     string  `json:"image_url"`
	Caption      *string `json:"caption,omitempty"`
	UploadedBy   *string `json:"uploaded_by,omitempty"`
	DisplayOrder int     `json:"display_order"`
	UploadedAt   string  `json:"uploaded_at"`
}

// NewEventPhotoInsert fails with ok=false while the photo has no uploaded
// URL; such a record must not be pushed.
func NewEventPhotoInsert(p *models.EventPhoto) (EventPhotoInsert, bool) {
	if p.ImageURL == nil || *p.ImageURL == "" {
		return EventPhotoInsert{}, false
	}
	return EventPhotoInsert{
		ID:           p.ID,
		EventID:      p.EventID,
		ImageURL:     *p.ImageURL,
		Caption:      p.Caption,
		UploadedBy:   p.UploadedBy,
		DisplayOrder: p.DisplayOrder,
		UploadedAt:   FormatTimestamp(p.UploadedAt),
	}, true
}

func EventPhotoFromRow(r EventPhotoRow) (*models.EventPhoto, Diagnostics) {
	c := &collector{table: TableEventPhotos}
	url := r.ImageURL
	return &models.EventPhoto{
		ID:           r.ID,
		EventID:      r.EventID,
		ImageURL:     &url,
		Caption:      r.Caption,
		UploadedBy:   r.UploadedBy,
		DisplayOrder: r.DisplayOrder,
		UploadedAt:   c.timestamp("uploaded_at", r.UploadedAt),
		CreatedAt:    c.timestamp("created_at", r.CreatedAt),
	}, c.diags
}
