package transactions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error)

	// ListForPeriod returns the user's transactions with
	// from <= created_at < to, ordered by timestamp ascending.
	ListForPeriod(ctx context.Context, userID string, from, to time.Time) ([]*models.Transaction, error)

	// SumForPeriod returns the cumulative amount over the same half-open
	// window. A user with no rows in the window yields 0, not an error.
	SumForPeriod(ctx context.Context, userID string, from, to time.Time) (float64, error)

	// HasVerifiedInRange reports whether at least one verified transaction
	// exists in the window.
	HasVerifiedInRange(ctx context.Context, userID string, from, to time.Time) (bool, error)

	// SetUsefulness stores the owner's post-hoc judgment. Overwriting an
	// already-set value is permitted.
	SetUsefulness(ctx context.Context, userID, transactionID string, useful bool) error
}
