package verdicts

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

func (r *PostgresRepository) Create(ctx context.Context, v *models.RiskVerdict) (*models.RiskVerdict, error) {

	query :=
		`INSERT INTO scam_verdicts (id, user_id, message, risk_score, risk_level, explanation, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		v.ID, v.UserID, v.Message, v.RiskScore, string(v.RiskLevel), v.Explanation, v.Source).
		Scan(&v.ID, &v.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.RiskVerdict, error) {

	query :=
		`SELECT id, user_id, message, risk_score, risk_level, explanation, source, created_at
		 FROM scam_verdicts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.RiskVerdict
	for rows.Next() {
		v := &models.RiskVerdict{}
		var level string
		if err := rows.Scan(&v.ID, &v.UserID, &v.Message, &v.RiskScore,
			&level, &v.Explanation, &v.Source, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		v.RiskLevel = models.RiskLevel(level)
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
