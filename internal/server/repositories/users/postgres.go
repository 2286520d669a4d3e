package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/budgetguard/internal/common"
	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, password_hash, monthly_budget, emergency_fund,
	COALESCE(emergency_pin, ''), coins, current_streak, longest_streak,
	milestone_watermark, trees_planted, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.MonthlyBudget,
		&u.EmergencyFund, &u.EmergencyPIN, &u.Coins, &u.CurrentStreak,
		&u.LongestStreak, &u.MilestoneWatermark, &u.TreesPlanted, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.PasswordHash).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdateBudget(ctx context.Context, id string, monthlyBudget, emergencyFund float64, emergencyPIN string) error {

	query :=
		`UPDATE users
		 SET monthly_budget = $2, emergency_fund = $3, emergency_pin = NULLIF($4, '')
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, monthlyBudget, emergencyFund, emergencyPIN)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresRepository) UpdateProgression(ctx context.Context, id string, currentStreak, longestStreak, milestoneWatermark, treesPlanted int) error {

	query :=
		`UPDATE users
		 SET current_streak = $2, longest_streak = $3, milestone_watermark = $4, trees_planted = $5
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, currentStreak, longestStreak, milestoneWatermark, treesPlanted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresRepository) CreditCoins(ctx context.Context, id string, amount int64) error {

	query := `UPDATE users SET coins = coins + $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresRepository) DebitCoins(ctx context.Context, id string, amount int64) error {

	// The balance guard lives in the statement itself so a concurrent debit
	// can never drive the balance negative.
	query := `UPDATE users SET coins = coins - $2 WHERE id = $1 AND coins >= $2`

	res, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		// Zero rows means either an underfunded balance or no such user;
		// tell them apart so the caller can report the right failure.
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if !exists {
			return common.ErrNotFound
		}
		return common.ErrInsufficientCoins
	}
	return nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
