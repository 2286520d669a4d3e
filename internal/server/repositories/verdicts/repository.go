package verdicts

import (
	"context"

	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

type Repository interface {
	// Create persists one immutable scam-check result.
	Create(ctx context.Context, v *models.RiskVerdict) (*models.RiskVerdict, error)

	// ListByUser returns up to limit verdicts, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.RiskVerdict, error)
}
