package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/server/models"
)

// ChartPoint is one step of the cumulative month-to-date spend curve.
type ChartPoint struct {
	Timestamp  time.Time
	Cumulative float64
}

// Dashboard is the aggregate snapshot for the home screen: budget position,
// progression state, and the month's transactions with the running total.
type Dashboard struct {
	Username        string
	MonthlyBudget   float64
	EmergencyFund   float64
	HasEmergencyPIN bool
	CurrentSpend    float64
	BudgetRemaining float64
	UsagePercent    float64
	Coins           int64
	Progression     *models.ProgressionState
	Transactions    []*models.Transaction
	Chart           []ChartPoint
}

// Dashboard assembles the snapshot for userID. The progression is recomputed
// first so a day rollover since the last commit is reflected immediately,
// not only after the next transaction.
func (s *BudgetService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {

	progression, err := s.progression.Recompute(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := monthRange(s.now())
	txns, err := s.repomanager.Transactions(s.db).ListForPeriod(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	chart := make([]ChartPoint, 0, len(txns))
	currentSpend := 0.0
	for _, t := range txns {
		currentSpend += t.Amount
		chart = append(chart, ChartPoint{Timestamp: t.CreatedAt, Cumulative: currentSpend})
	}

	usage := 0.0
	if user.MonthlyBudget > 0 {
		usage = currentSpend / user.MonthlyBudget * 100
	}

	return &Dashboard{
		Username:        user.Username,
		MonthlyBudget:   user.MonthlyBudget,
		EmergencyFund:   user.EmergencyFund,
		HasEmergencyPIN: user.EmergencyPIN != "",
		CurrentSpend:    currentSpend,
		BudgetRemaining: user.MonthlyBudget - currentSpend,
		UsagePercent:    usage,
		Coins:           user.Coins,
		Progression:     progression,
		Transactions:    txns,
		Chart:           chart,
	}, nil
}

// MarkUsefulness records whether the owner judged a transaction useful.
func (s *BudgetService) MarkUsefulness(ctx context.Context, userID, transactionID string, useful bool) error {
	return s.repomanager.Transactions(s.db).SetUsefulness(ctx, userID, transactionID, useful)
}
