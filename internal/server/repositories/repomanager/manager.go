package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/phonebook/internal/dbx"
	"github.com/dmitrijs2005/phonebook/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/phonebook/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/phonebook/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so a service can run several of them atomically.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) ([]int64, error)
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Contacts(db dbx.DBTX) contacts.Repository
}
