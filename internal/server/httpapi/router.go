package httpapi

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all routes attached. Everything under
// /api/v1 except register and login requires a Bearer token.
func NewRouter(h *Handler, secretKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	v1.POST("/register", h.register)
	v1.POST("/login", h.login)

	authed := v1.Group("")
	authed.Use(requireAuth(secretKey))
	authed.POST("/budget", h.setBudget)
	authed.GET("/dashboard", h.dashboard)
	authed.POST("/payments/simulate", h.simulatePayment)
	authed.POST("/transactions", h.createTransaction)
	authed.POST("/transactions/:id/usefulness", h.markUsefulness)
	authed.POST("/scam/check", h.checkScam)
	authed.GET("/scam/history", h.scamHistory)
	authed.POST("/rewards/redeem", h.redeem)
	authed.GET("/rewards/history", h.redemptionHistory)

	return r
}
