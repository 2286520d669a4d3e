package activity

import (
	"context"
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

type Repository interface {
	// Upsert stores the activity flag for (userID, day). Recomputing the
	// same day overwrites the existing row, it never appends a duplicate.
	Upsert(ctx context.Context, userID string, day time.Time, hadActivity bool) error

	// ListSince returns the user's activity rows with day >= since, ordered
	// by day descending.
	ListSince(ctx context.Context, userID string, since time.Time) ([]*models.ActivityDay, error)
}
