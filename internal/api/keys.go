package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
	"github.com/keyfleet/keyfleet/internal/store"
)

// KeyHandler serves private AI key endpoints.
type KeyHandler struct {
	repo KeyRepository
	log  *logrus.Logger
}

// NewKeyHandler creates a KeyHandler.
func NewKeyHandler(repo KeyRepository, log *logrus.Logger) *KeyHandler {
	return &KeyHandler{repo: repo, log: log}
}

// List handles GET /private-ai-keys. Optional owner_id, team_id, and
// region_id query parameters narrow the listing.
func (h *KeyHandler) List(c *gin.Context) {
	ownerID, ok := queryInt64(c, "owner_id")
	if !ok {
		return
	}
	teamID, ok := queryInt64(c, "team_id")
	if !ok {
		return
	}
	regionID, ok := queryInt64(c, "region_id")
	if !ok {
		return
	}

	keys, err := h.repo.ListKeys(c.Request.Context(), store.KeyFilter{
		OwnerID:  ownerID,
		TeamID:   teamID,
		RegionID: regionID,
	})
	if err != nil {
		respondDomainError(c, h.log, err, "listing keys")
		return
	}
	if keys == nil {
		keys = []models.PrivateAIKey{}
	}

	c.JSON(http.StatusOK, keys)
}

// Get handles GET /private-ai-keys/:id. The response never includes the
// database password; it is only returned on creation.
func (h *KeyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	key, err := h.repo.GetKey(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "getting key")
		return
	}

	c.JSON(http.StatusOK, key)
}

// Create handles POST /private-ai-keys. This is the one response that
// carries the plaintext database password.
func (h *KeyHandler) Create(c *gin.Context) {
	var req models.CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	key, err := h.repo.CreateKey(c.Request.Context(), actorEmail(c), req)
	if err != nil {
		respondDomainError(c, h.log, err, "creating key")
		return
	}

	c.JSON(http.StatusCreated, key)
}

// Update handles PUT /private-ai-keys/:id.
func (h *KeyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	key, err := h.repo.UpdateKey(c.Request.Context(), actorEmail(c), id, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating key")
		return
	}

	c.JSON(http.StatusOK, key)
}

// Delete handles DELETE /private-ai-keys/:id.
func (h *KeyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteKey(c.Request.Context(), actorEmail(c), id); err != nil {
		respondDomainError(c, h.log, err, "deleting key")
		return
	}

	c.Status(http.StatusNoContent)
}

// Token handles GET /private-ai-keys/:id/token. Admin-gated in the router.
func (h *KeyHandler) Token(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	token, err := h.repo.GatewayToken(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "reading gateway token")
		return
	}

	h.log.WithFields(logrus.Fields{"action": "key.token", "key_id": id, "actor": actorEmail(c)}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"litellm_token": token})
}

// Spend handles GET /private-ai-keys/:id/spend.
func (h *KeyHandler) Spend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	key, err := h.repo.GetKey(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "reading spend")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spend":           key.Spend,
		"max_budget":      key.MaxBudget,
		"budget_duration": key.BudgetDuration,
		"budget_reset_at": key.BudgetResetAt,
	})
}

// RecordSpend handles PUT /private-ai-keys/:id/spend. Gateways report usage
// here; an elapsed budget window resets spend to zero.
func (h *KeyHandler) RecordSpend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Spend float64 `json:"spend"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Spend < 0 {
		respondError(c, http.StatusBadRequest, "spend must not be negative")
		return
	}

	key, err := h.repo.RecordSpend(c.Request.Context(), id, req.Spend)
	if err != nil {
		respondDomainError(c, h.log, err, "recording spend")
		return
	}

	c.JSON(http.StatusOK, key)
}
