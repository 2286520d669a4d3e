package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/budgetguard/internal/common"
	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/logging"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/repomanager"
)

// RewardsService exchanges earned coins for brand vouchers. The debit and
// the redemption record are written in one transaction so the balance can
// never go negative or diverge from the redemption history.
type RewardsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewRewardsService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *RewardsService {
	return &RewardsService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "rewards"),
		now:         time.Now,
	}
}

// Redeem debits cost coins from the user and records the redemption.
func (s *RewardsService) Redeem(ctx context.Context, userID string, brand string, cost int64) (*models.Redemption, error) {

	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, fmt.Errorf("%w: brand must not be blank", common.ErrValidation)
	}
	if cost <= 0 {
		return nil, fmt.Errorf("%w: cost must be positive", common.ErrValidation)
	}

	var redemption *models.Redemption

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).DebitCoins(ctx, userID, cost); err != nil {
			return err
		}

		var err error
		redemption, err = s.repomanager.Redemptions(tx).Create(ctx, &models.Redemption{
			ID:        uuid.New().String(),
			UserID:    userID,
			Brand:     brand,
			Coins:     cost,
			CreatedAt: s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return redemption, nil
}

// History returns the user's redemptions, newest first.
func (s *RewardsService) History(ctx context.Context, userID string) ([]*models.Redemption, error) {
	return s.repomanager.Redemptions(s.db).ListByUser(ctx, userID, defaultHistoryLimit)
}
