package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/memokeeper/internal/dbx"
	"github.com/dmitrijs2005/memokeeper/internal/server/repositories/resources"
)

// RepositoryManager binds repositories to a connection or transaction and
// owns the schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Resources(db dbx.DBTX) resources.Repository
}
