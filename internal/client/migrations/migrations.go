// Package migrations embeds the goose migrations of the two client
// databases: the entity store (local) and the sync bookkeeping (syncstate).
package migrations

import "embed"

const (
	DirLocal     = "local"
	DirSyncState = "syncstate"
)

//go:embed local/*.sql syncstate/*.sql
var Migrations embed.FS
