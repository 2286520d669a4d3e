package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, day time.Time, hadActivity bool) error {

	query :=
		`INSERT INTO daily_activity (user_id, day, had_activity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, day) DO UPDATE SET had_activity = EXCLUDED.had_activity
		 `

	_, err := r.db.ExecContext(ctx, query, userID, day, hadActivity)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*models.ActivityDay, error) {

	query :=
		`SELECT user_id, day, had_activity
		 FROM daily_activity
		 WHERE user_id = $1 AND day >= $2
		 ORDER BY day DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ActivityDay
	for rows.Next() {
		a := &models.ActivityDay{}
		if err := rows.Scan(&a.UserID, &a.Day, &a.HadActivity); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
