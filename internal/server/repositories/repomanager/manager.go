package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ark/internal/dbx"
	"github.com/dmitrijs2005/ark/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ark/internal/server/repositories/files"
	"github.com/dmitrijs2005/ark/internal/server/repositories/mimetypes"
	"github.com/dmitrijs2005/ark/internal/server/repositories/versions"
)

// RepositoryManager vends repositories bound to any DBTX, so that the same
// code runs against the pool, a checked-out connection or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Versions(db dbx.DBTX) versions.Repository
	Files(db dbx.DBTX) files.Repository
	Mimetypes(db dbx.DBTX) mimetypes.Repository
}
