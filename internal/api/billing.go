package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BillingHandler serves pricing-table endpoints.
type BillingHandler struct {
	repo BillingRepository
	log  *logrus.Logger
}

// NewBillingHandler creates a BillingHandler.
func NewBillingHandler(repo BillingRepository, log *logrus.Logger) *BillingHandler {
	return &BillingHandler{repo: repo, log: log}
}

// PricingTableSession handles POST /billing/pricing-table-session.
func (h *BillingHandler) PricingTableSession(c *gin.Context) {
	if !h.repo.Enabled() {
		respondError(c, http.StatusNotFound, "pricing table is not configured")
		return
	}

	var req struct {
		StripeCustomerID string `json:"stripe_customer_id"`
	}
	// An empty body is fine; the table then renders unscoped.
	_ = c.ShouldBindJSON(&req) //nolint:errcheck // optional body

	session, err := h.repo.CreateSession(c.Request.Context(), req.StripeCustomerID)
	if err != nil {
		h.log.WithError(err).Error("creating pricing table session")
		respondError(c, http.StatusBadGateway, "billing provider unavailable")
		return
	}

	c.JSON(http.StatusOK, session)
}
