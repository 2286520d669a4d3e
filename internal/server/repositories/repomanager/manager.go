// Package repomanager hands out repository instances bound to a dbx.DBTX,
// so the same repository code runs against the pool or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/activity"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/redemptions"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/users"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/verdicts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Activity(db dbx.DBTX) activity.Repository
	Verdicts(db dbx.DBTX) verdicts.Repository
	Redemptions(db dbx.DBTX) redemptions.Repository
}
