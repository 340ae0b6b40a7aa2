package tables

import (
	"context"
	"encoding/json"
)

// Filter is an equality condition on a readable column.
type Filter struct {
	Column string
	Value  string
}

// Query narrows and orders a Select.
type Query struct {
	Filters []Filter
	Order   string
	Desc    bool
}

// Repository reads and writes rows of registered tables on behalf of an
// account. Rows outside the account's scope are invisible.
type Repository interface {
	Select(ctx context.Context, t Table, account string, q Query) ([]json.RawMessage, error)
	// Insert creates row and returns it as stored. With upsert set an
	// existing row with the same id is merged instead.
	Insert(ctx context.Context, t Table, account string, row Row, upsert bool) (json.RawMessage, error)
	// Update and Delete return the affected rows, none when id is unknown
	// or out of scope.
	Update(ctx context.Context, t Table, account, id string, row Row) ([]json.RawMessage, error)
	Delete(ctx context.Context, t Table, account, id string) ([]json.RawMessage, error)

	FindInvitation(ctx context.Context, shareToken string) (json.RawMessage, error)
	RespondInvitation(ctx context.Context, shareToken string, r Response) (json.RawMessage, error)
}

// Response is a guest's answer submitted through a share link.
type Response struct {
	Status   string
	PlusOnes int
	Message  *string
}
