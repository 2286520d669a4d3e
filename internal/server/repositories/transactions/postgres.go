package transactions

import (
	"context"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {

	query :=
		`INSERT INTO transactions (id, user_id, amount, description, category, verified)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.Amount, t.Description, t.Category, t.Verified).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) ListForPeriod(ctx context.Context, userID string, from, to time.Time) ([]*models.Transaction, error) {

	query :=
		`SELECT id, user_id, amount, description, category, verified, is_useful, created_at
		 FROM transactions
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Description,
			&t.Category, &t.Verified, &t.IsUseful, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SumForPeriod(ctx context.Context, userID string, from, to time.Time) (float64, error) {

	query :=
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		 `

	var total float64
	err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

func (r *PostgresRepository) HasVerifiedInRange(ctx context.Context, userID string, from, to time.Time) (bool, error) {

	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM transactions
		   WHERE user_id = $1 AND verified AND created_at >= $2 AND created_at < $3
		 )`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) SetUsefulness(ctx context.Context, userID, transactionID string, useful bool) error {

	query :=
		`UPDATE transactions
		 SET is_useful = $3
		 WHERE id = $2 AND user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, transactionID, useful)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
