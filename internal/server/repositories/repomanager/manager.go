package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/quotas"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DB or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Notes(db dbx.DBTX) notes.Repository
	Quotas(db dbx.DBTX) quotas.Repository
}
