package redemptions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, red *models.Redemption) (*models.Redemption, error) {

	query :=
		`INSERT INTO redemptions (id, user_id, brand, coins)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		red.ID, red.UserID, red.Brand, red.Coins).Scan(&red.ID, &red.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return red, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Redemption, error) {

	query :=
		`SELECT id, user_id, brand, coins, created_at
		 FROM redemptions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Redemption
	for rows.Next() {
		red := &models.Redemption{}
		if err := rows.Scan(&red.ID, &red.UserID, &red.Brand, &red.Coins, &red.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, red)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
