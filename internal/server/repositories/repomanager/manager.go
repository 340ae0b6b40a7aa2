package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gatherly/internal/dbx"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/tables"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tables(db dbx.DBTX) tables.Repository
}
