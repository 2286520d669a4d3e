// Package services contains the server-side business logic: the budget
// decision engine, the streak/progression tracker, the scam-message risk
// classifier, accounts, and coin rewards.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/common"
	"github.com/dmitrijs2005/budgetguard/internal/dbx"
	"github.com/dmitrijs2005/budgetguard/internal/logging"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
	"github.com/dmitrijs2005/budgetguard/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Decision classifies a prospective or recorded payment.
type Decision string

const (
	DecisionSafe    Decision = "SAFE"
	DecisionWarning Decision = "WARNING"
	DecisionBlocked Decision = "BLOCKED"
)

// Policy thresholds, in percent of the monthly budget. Central by design:
// the evaluate and commit paths must never drift apart.
const (
	warnUsagePercent  = 85.0
	blockUsagePercent = 100.0
)

// DefaultCategory is assigned when a transaction request carries no category.
const DefaultCategory = "general"

// Authorization carries the optional secondary credential for payments that
// enter the emergency zone.
type Authorization struct {
	UseEmergencyFund bool
	EmergencyPIN     string
}

// DecisionResult is the full outcome of one policy evaluation. Currency
// values are unrounded; rounding happens at the presentation boundary only.
type DecisionResult struct {
	Decision        Decision
	PredictedSpend  float64
	CurrentSpend    float64
	BudgetRemaining float64
	UsagePercent    float64
	RequiresPIN     bool
	Explanation     string
	CanApprove      bool
}

// CommitRequest describes a transaction to be recorded.
type CommitRequest struct {
	Amount      float64
	Description string
	Category    string
	// Verified entries count toward streak and coin accrual. Record-keeping
	// imports set this to false.
	Verified bool
	Authorization
}

// CommitResult reports what the commit did. Transaction is nil when the
// policy blocked the write; Progression is nil unless the entry was verified.
type CommitResult struct {
	Decision    DecisionResult
	Transaction *models.Transaction
	Progression *models.ProgressionState
}

// BudgetService is the decision engine: it classifies candidate payments
// against the user's budget and emergency fund, and commits accepted
// transactions together with their coin and streak side effects.
type BudgetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	progression *ProgressionService
	logger      logging.Logger
	now         func() time.Time
}

func NewBudgetService(db *sql.DB, m repomanager.RepositoryManager, p *ProgressionService, logger logging.Logger) *BudgetService {
	return &BudgetService{
		db:          db,
		repomanager: m,
		progression: p,
		logger:      logger.With("module", "budget"),
		now:         time.Now,
	}
}

// monthRange returns the half-open [start, end) window of the calendar month
// containing ref, in ref's location.
func monthRange(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 1, 0)
}

// evaluatePolicy is the policy core. It is pure: all state arrives as
// arguments, which keeps the threshold and emergency-zone behavior testable
// without storage.
//
// Checks run in priority order:
//  1. emergency zone (predicted spend over the safe limit while an
//     emergency fund exists) — SAFE only with a matching PIN;
//  2. predicted usage at or past 100%% — BLOCKED;
//  3. predicted usage at or past 85%% — WARNING;
//  4. otherwise SAFE.
func evaluatePolicy(user *models.User, currentSpend, amount float64, auth Authorization) DecisionResult {

	predicted := currentSpend + amount

	// May be negative when the emergency fund exceeds the budget; every
	// positive spend is then in the emergency zone. Tolerated on purpose.
	safeLimit := user.MonthlyBudget - user.EmergencyFund

	// Convention: a zero budget reports 0%% usage, not an error.
	usage := 0.0
	if user.MonthlyBudget > 0 {
		usage = predicted / user.MonthlyBudget * 100
	}

	res := DecisionResult{
		PredictedSpend:  predicted,
		CurrentSpend:    currentSpend,
		BudgetRemaining: user.MonthlyBudget - predicted,
		UsagePercent:    usage,
	}

	switch {
	case predicted > safeLimit && user.EmergencyFund > 0:
		// An unset PIN never matches; there is nothing to authorize with.
		if auth.UseEmergencyFund && user.EmergencyPIN != "" && auth.EmergencyPIN == user.EmergencyPIN {
			res.Decision = DecisionSafe
			res.Explanation = "Approved using emergency fund protection"
		} else {
			res.Decision = DecisionBlocked
			res.RequiresPIN = true
			res.Explanation = fmt.Sprintf("Emergency PIN required to approve $%.2f payment (over safe spending limit).", amount)
		}
	case usage >= blockUsagePercent:
		overage := math.Max(0, predicted-user.MonthlyBudget)
		res.Decision = DecisionBlocked
		res.Explanation = fmt.Sprintf("Predicted spending ($%.2f) exceeds monthly budget by $%.2f", predicted, overage)
	case usage >= warnUsagePercent:
		res.Decision = DecisionWarning
		res.Explanation = fmt.Sprintf("This payment may push you to %.1f%% of budget", usage)
	default:
		res.Decision = DecisionSafe
		res.Explanation = "Payment is within safe spending limits"
	}

	res.CanApprove = res.Decision == DecisionSafe
	return res
}

// Evaluate classifies a candidate payment without recording anything.
// BLOCKED and WARNING are in-band outcomes, not errors. Evaluations run
// unserialized; only Commit takes the per-user lock.
func (s *BudgetService) Evaluate(ctx context.Context, userID string, amount float64, auth Authorization) (*DecisionResult, error) {

	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := monthRange(s.now())
	currentSpend, err := s.repomanager.Transactions(s.db).SumForPeriod(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	res := evaluatePolicy(user, currentSpend, amount, auth)
	return &res, nil
}

// Commit records a transaction if the policy admits it. The user row lock,
// the spend recomputation, the ledger append, the coin credit, and the
// progression recompute all happen in one transaction, so concurrent commits
// for the same user serialize and never act on a stale spend total.
//
// A BLOCKED outcome never writes: the emergency zone without a valid PIN
// fails with ErrEmergencyPINRequired, a plain budget overrun returns the
// BLOCKED decision in-band with Transaction == nil.
func (s *BudgetService) Commit(ctx context.Context, userID string, req CommitRequest) (*CommitResult, error) {

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description must not be blank", common.ErrValidation)
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}

	result := &CommitResult{}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		userRepo := s.repomanager.Users(tx)
		txnRepo := s.repomanager.Transactions(tx)

		user, err := userRepo.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		from, to := monthRange(now)
		currentSpend, err := txnRepo.SumForPeriod(ctx, userID, from, to)
		if err != nil {
			return err
		}

		eval := evaluatePolicy(user, currentSpend, req.Amount, req.Authorization)
		result.Decision = eval

		if eval.Decision == DecisionBlocked {
			if eval.RequiresPIN {
				return fmt.Errorf("%w: %s", common.ErrEmergencyPINRequired, eval.Explanation)
			}
			// Budget overrun: in-band policy outcome, nothing written.
			return nil
		}

		txn, err := txnRepo.Create(ctx, &models.Transaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Amount:      req.Amount,
			Description: req.Description,
			Category:    category,
			Verified:    req.Verified,
		})
		if err != nil {
			return err
		}
		result.Transaction = txn

		if req.Verified {
			if err := userRepo.CreditCoins(ctx, userID, 1); err != nil {
				return err
			}
			state, err := s.progression.recomputeTx(ctx, tx, user, now)
			if err != nil {
				return err
			}
			result.Progression = state
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Transaction != nil {
		s.logger.Info(ctx, "transaction accepted",
			"user_id", userID, "amount", req.Amount, "decision", result.Decision.Decision)
	} else {
		s.logger.Info(ctx, "transaction blocked",
			"user_id", userID, "amount", req.Amount)
	}

	return result, nil
}
