package users

import (
	"context"

	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByIDForUpdate locks the user row for the duration of the enclosing
	// transaction. The commit path relies on this to serialize concurrent
	// spend evaluations per user.
	GetByIDForUpdate(ctx context.Context, id string) (*models.User, error)

	UpdateBudget(ctx context.Context, id string, monthlyBudget, emergencyFund float64, emergencyPIN string) error
	UpdateProgression(ctx context.Context, id string, currentStreak, longestStreak, milestoneWatermark, treesPlanted int) error

	CreditCoins(ctx context.Context, id string, amount int64) error
	// DebitCoins fails with common.ErrInsufficientCoins when the balance
	// would go negative.
	DebitCoins(ctx context.Context, id string, amount int64) error
}
