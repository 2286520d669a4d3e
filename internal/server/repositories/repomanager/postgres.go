package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/server/migrations"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/activity"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/redemptions"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/users"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/verdicts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Activity(db dbx.DBTX) activity.Repository {
	return activity.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Verdicts(db dbx.DBTX) verdicts.Repository {
	return verdicts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Redemptions(db dbx.DBTX) redemptions.Repository {
	return redemptions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
