package redemptions

import (
	"context"

	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Redemption) (*models.Redemption, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Redemption, error)
}
