package httpapi

import (
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/common"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
	"github.com/dmitrijs2005/budgetguard/internal/server/services"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required,min=4,max=128"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type budgetRequest struct {
	MonthlyBudget float64 `json:"monthly_budget" validate:"gte=0"`
	EmergencyFund float64 `json:"emergency_fund" validate:"gte=0"`
	EmergencyPIN  string  `json:"emergency_pin" validate:"omitempty,len=4,numeric"`
}

type simulateRequest struct {
	Amount           float64 `json:"amount" validate:"required,gt=0"`
	UseEmergencyFund bool    `json:"use_emergency_fund"`
	EmergencyPIN     string  `json:"emergency_pin"`
}

type transactionRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,notblank,max=256"`
	Category    string  `json:"category" validate:"max=64"`
	// Verified defaults to true: a payment submitted through the app counts
	// toward the streak; imports send false explicitly.
	Verified         *bool   `json:"verified"`
	UseEmergencyFund bool    `json:"use_emergency_fund"`
	EmergencyPIN     string  `json:"emergency_pin"`
}

type usefulnessRequest struct {
	Useful *bool `json:"useful" validate:"required"`
}

type scamCheckRequest struct {
	Message string `json:"message" validate:"required,notblank,max=4096"`
}

type redeemRequest struct {
	Brand string `json:"brand" validate:"required,notblank,max=64"`
	Cost  int64  `json:"cost" validate:"required,gt=0"`
}

// Currency values round to cents and percentages to one decimal here, at the
// presentation boundary; the services keep full precision.

type decisionResponse struct {
	Decision        string  `json:"decision"`
	PredictedSpend  float64 `json:"predicted_spend"`
	CurrentSpend    float64 `json:"current_spend"`
	BudgetRemaining float64 `json:"budget_remaining"`
	UsagePercent    float64 `json:"usage_percent"`
	RequiresPIN     bool    `json:"requires_pin"`
	Explanation     string  `json:"explanation"`
	CanApprove      bool    `json:"can_approve"`
}

func toDecisionResponse(d services.DecisionResult) decisionResponse {
	return decisionResponse{
		Decision:        string(d.Decision),
		PredictedSpend:  common.Round2(d.PredictedSpend),
		CurrentSpend:    common.Round2(d.CurrentSpend),
		BudgetRemaining: common.Round2(d.BudgetRemaining),
		UsagePercent:    common.Round1(d.UsagePercent),
		RequiresPIN:     d.RequiresPIN,
		Explanation:     d.Explanation,
		CanApprove:      d.CanApprove,
	}
}

type transactionResponse struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Verified    bool      `json:"verified"`
	IsUseful    *bool     `json:"is_useful"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTransactionResponse(t *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      common.Round2(t.Amount),
		Description: t.Description,
		Category:    t.Category,
		Verified:    t.Verified,
		IsUseful:    t.IsUseful,
		CreatedAt:   t.CreatedAt,
	}
}

type progressionResponse struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	TreeProgress  int `json:"tree_progress"`
	TreesPlanted  int `json:"trees_planted"`
}

func toProgressionResponse(p *models.ProgressionState) *progressionResponse {
	if p == nil {
		return nil
	}
	return &progressionResponse{
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
		TreeProgress:  p.TreeProgress,
		TreesPlanted:  p.TreesPlanted,
	}
}

type commitResponse struct {
	Decision    decisionResponse     `json:"decision"`
	Transaction *transactionResponse `json:"transaction"`
	Progression *progressionResponse `json:"progression,omitempty"`
}

func toCommitResponse(r *services.CommitResult) commitResponse {
	out := commitResponse{
		Decision:    toDecisionResponse(r.Decision),
		Progression: toProgressionResponse(r.Progression),
	}
	if r.Transaction != nil {
		t := toTransactionResponse(r.Transaction)
		out.Transaction = &t
	}
	return out
}

type chartPointResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	Cumulative float64   `json:"cumulative"`
}

type dashboardResponse struct {
	Username        string                `json:"username"`
	MonthlyBudget   float64               `json:"monthly_budget"`
	EmergencyFund   float64               `json:"emergency_fund"`
	HasEmergencyPIN bool                  `json:"has_emergency_pin"`
	CurrentSpend    float64               `json:"current_spend"`
	BudgetRemaining float64               `json:"budget_remaining"`
	UsagePercent    float64               `json:"usage_percent"`
	Coins           int64                 `json:"coins"`
	Progression     *progressionResponse  `json:"progression"`
	Transactions    []transactionResponse `json:"transactions"`
	Chart           []chartPointResponse  `json:"chart"`
}

func toDashboardResponse(d *services.Dashboard) dashboardResponse {
	txns := make([]transactionResponse, 0, len(d.Transactions))
	for _, t := range d.Transactions {
		txns = append(txns, toTransactionResponse(t))
	}
	chart := make([]chartPointResponse, 0, len(d.Chart))
	for _, p := range d.Chart {
		chart = append(chart, chartPointResponse{
			Timestamp:  p.Timestamp,
			Cumulative: common.Round2(p.Cumulative),
		})
	}
	return dashboardResponse{
		Username:        d.Username,
		MonthlyBudget:   common.Round2(d.MonthlyBudget),
		EmergencyFund:   common.Round2(d.EmergencyFund),
		HasEmergencyPIN: d.HasEmergencyPIN,
		CurrentSpend:    common.Round2(d.CurrentSpend),
		BudgetRemaining: common.Round2(d.BudgetRemaining),
		UsagePercent:    common.Round1(d.UsagePercent),
		Coins:           d.Coins,
		Progression:     toProgressionResponse(d.Progression),
		Transactions:    txns,
		Chart:           chart,
	}
}

type verdictResponse struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	RiskScore   int       `json:"risk_score"`
	RiskLevel   string    `json:"risk_level"`
	Explanation string    `json:"explanation"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

func toVerdictResponse(v *models.RiskVerdict) verdictResponse {
	return verdictResponse{
		ID:          v.ID,
		Message:     v.Message,
		RiskScore:   v.RiskScore,
		RiskLevel:   string(v.RiskLevel),
		Explanation: v.Explanation,
		Source:      v.Source,
		CreatedAt:   v.CreatedAt,
	}
}

type redemptionResponse struct {
	ID        string    `json:"id"`
	Brand     string    `json:"brand"`
	Coins     int64     `json:"coins"`
	CreatedAt time.Time `json:"created_at"`
}

func toRedemptionResponse(r *models.Redemption) redemptionResponse {
	return redemptionResponse{
		ID:        r.ID,
		Brand:     r.Brand,
		Coins:     r.Coins,
		CreatedAt: r.CreatedAt,
	}
}
