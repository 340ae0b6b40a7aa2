// Package tables stores the synced entity tables. Rows travel as JSON
// documents end to end: payloads are spread onto columns with
// json_populate_record and results come back through row_to_json, so the
// package needs no per-table structs.
package tables

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/dmitrijs2005/gatherly/internal/common"
)

var (
	// ErrUnknownTable is returned for a table name outside the registry.
	ErrUnknownTable = errors.New("unknown table")
	// ErrForbidden means the row exists, or would exist, outside the caller's scope.
	ErrForbidden = errors.New("row is not owned by caller")
)

// Table describes one remote table.
//
// A row is owned either directly, when OwnerColumn holds the account id,
// or through its event, when EventScoped is set and event_id points at an
// event the account owns.
type Table struct {
	Name        string
	Columns     []string
	OwnerColumn string
	EventScoped bool
	// Touch lists a column set to now() on every update.
	Touch string
}

// Writable reports whether col may appear in an insert payload.
func (t Table) Writable(col string) bool {
	return slices.Contains(t.Columns, col)
}

// Readable reports whether col may be filtered or ordered on.
func (t Table) Readable(col string) bool {
	return t.Writable(col) || col == "created_at" || col == "updated_at" ||
		col == "uploaded_at" || col == "share_token"
}

// Immutable reports whether col identifies the row or its owner and so may
// not change on update.
func (t Table) Immutable(col string) bool {
	if col == "id" || col == t.OwnerColumn {
		return true
	}
	return t.EventScoped && col == "event_id"
}

// Registry lists every table the backend serves.
var Registry = map[string]Table{
	common.TableEvents: {
		Name: common.TableEvents,
		Columns: []string{
			"id", "owner_id", "type", "title", "description", "date", "time",
			"location_name", "location_address", "max_guests", "rsvp_deadline",
			"cover_image_url", "profile_image_url",
		},
		OwnerColumn: "owner_id",
		Touch:       "updated_at",
	},
	common.TableInvitations: {
		Name: common.TableInvitations,
		Columns: []string{
			"id", "event_id", "guest_name", "guest_email", "guest_phone", "status",
			"sent_at", "responded_at", "message", "plus_ones", "share_token", "share_url",
		},
		EventScoped: true,
		Touch:       "updated_at",
	},
	common.TableWishlistItems: {
		Name: common.TableWishlistItems,
		Columns: []string{
			"id", "user_id", "title", "description", "price_in_cents", "url",
			"category", "status", "priority", "reserved_by",
		},
		OwnerColumn: "user_id",
		Touch:       "updated_at",
	},
	common.TableEventPhotos: {
		Name: common.TableEventPhotos,
		Columns: []string{
			"id", "event_id", "image_url", "caption", "uploaded_by", "display_order", "uploaded_at",
		},
		EventScoped: true,
	},
	common.TableUserProfiles: {
		Name: common.TableUserProfiles,
		Columns: []string{
			"id", "first_name", "last_name", "birth_date", "phone", "street", "city",
			"postal_code", "country", "notifications_enabled", "theme",
			"onboarding_completed", "onboarding_step",
		},
		OwnerColumn: "id",
		Touch:       "updated_at",
	},
}

// Lookup returns the registered table called name.
func Lookup(name string) (Table, error) {
	t, ok := Registry[name]
	if !ok {
		return Table{}, ErrUnknownTable
	}
	return t, nil
}

// Row is a table row as a JSON object keyed by column.
type Row map[string]json.RawMessage

// ParseRow decodes a JSON object payload.
func ParseRow(data []byte) (Row, error) {
	var r Row
	if err := json.Unmarshal(data, &r); err != nil || r == nil {
		return nil, fmt.Errorf("%w: payload must be a JSON object", common.ErrValidation)
	}
	return r, nil
}

// Columns returns the keys of r in sorted order.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Set stores v under col, encoded as JSON.
func (r Row) Set(col string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r[col] = b
	return nil
}

// String returns the string stored under col, or "" when it is absent or
// not a JSON string.
func (r Row) String(col string) string {
	var s string
	if raw, ok := r[col]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}
