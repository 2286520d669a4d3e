// Package httpapi exposes the services over a JSON HTTP API.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/budgetguard/internal/logging"
	"github.com/dmitrijs2005/budgetguard/internal/server/models"
	"github.com/dmitrijs2005/budgetguard/internal/server/services"
)

// The handler depends on narrow interfaces so tests can substitute the
// services without a database.

type AccountAPI interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	SetBudget(ctx context.Context, userID string, monthlyBudget, emergencyFund float64, emergencyPIN string) error
}

type BudgetAPI interface {
	Evaluate(ctx context.Context, userID string, amount float64, auth services.Authorization) (*services.DecisionResult, error)
	Commit(ctx context.Context, userID string, req services.CommitRequest) (*services.CommitResult, error)
	Dashboard(ctx context.Context, userID string) (*services.Dashboard, error)
	MarkUsefulness(ctx context.Context, userID, transactionID string, useful bool) error
}

type ScamAPI interface {
	CheckMessage(ctx context.Context, userID string, message string) (*models.RiskVerdict, error)
	History(ctx context.Context, userID string) ([]*models.RiskVerdict, error)
}

type RewardsAPI interface {
	Redeem(ctx context.Context, userID string, brand string, cost int64) (*models.Redemption, error)
	History(ctx context.Context, userID string) ([]*models.Redemption, error)
}

type Handler struct {
	accounts AccountAPI
	budget   BudgetAPI
	scam     ScamAPI
	rewards  RewardsAPI
	logger   logging.Logger
}

func NewHandler(accounts AccountAPI, budget BudgetAPI, scam ScamAPI, rewards RewardsAPI, logger logging.Logger) *Handler {
	return &Handler{
		accounts: accounts,
		budget:   budget,
		scam:     scam,
		rewards:  rewards,
		logger:   logger.With("module", "httpapi"),
	}
}

// bind decodes and validates the request body. It writes the 400 itself and
// reports whether the handler should continue.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

func (h *Handler) login(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) setBudget(c *gin.Context) {
	var req budgetRequest
	if !bind(c, &req) {
		return
	}

	err := h.accounts.SetBudget(c.Request.Context(), currentUserID(c),
		req.MonthlyBudget, req.EmergencyFund, req.EmergencyPIN)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.budget.Dashboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDashboardResponse(d))
}

func (h *Handler) simulatePayment(c *gin.Context) {
	var req simulateRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.budget.Evaluate(c.Request.Context(), currentUserID(c), req.Amount, services.Authorization{
		UseEmergencyFund: req.UseEmergencyFund,
		EmergencyPIN:     req.EmergencyPIN,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDecisionResponse(*res))
}

func (h *Handler) createTransaction(c *gin.Context) {
	var req transactionRequest
	if !bind(c, &req) {
		return
	}

	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}

	res, err := h.budget.Commit(c.Request.Context(), currentUserID(c), services.CommitRequest{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Verified:    verified,
		Authorization: services.Authorization{
			UseEmergencyFund: req.UseEmergencyFund,
			EmergencyPIN:     req.EmergencyPIN,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Transaction == nil {
		// Policy refused the payment; nothing was recorded.
		status = http.StatusOK
	}
	c.JSON(status, toCommitResponse(res))
}

func (h *Handler) markUsefulness(c *gin.Context) {
	var req usefulnessRequest
	if !bind(c, &req) {
		return
	}

	err := h.budget.MarkUsefulness(c.Request.Context(), currentUserID(c), c.Param("id"), *req.Useful)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) checkScam(c *gin.Context) {
	var req scamCheckRequest
	if !bind(c, &req) {
		return
	}

	v, err := h.scam.CheckMessage(c.Request.Context(), currentUserID(c), req.Message)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toVerdictResponse(v))
}

func (h *Handler) scamHistory(c *gin.Context) {
	list, err := h.scam.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]verdictResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVerdictResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) redeem(c *gin.Context) {
	var req redeemRequest
	if !bind(c, &req) {
		return
	}

	r, err := h.rewards.Redeem(c.Request.Context(), currentUserID(c), req.Brand, req.Cost)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRedemptionResponse(r))
}

func (h *Handler) redemptionHistory(c *gin.Context) {
	list, err := h.rewards.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]redemptionResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRedemptionResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
