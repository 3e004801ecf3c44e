package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

// TeamHandler serves team CRUD, merge, and lifecycle endpoints.
type TeamHandler struct {
	repo TeamRepository
	log  *logrus.Logger
}

// NewTeamHandler creates a TeamHandler.
func NewTeamHandler(repo TeamRepository, log *logrus.Logger) *TeamHandler {
	return &TeamHandler{repo: repo, log: log}
}

// List handles GET /teams.
func (h *TeamHandler) List(c *gin.Context) {
	includeDeleted := c.Query("include_deleted") == "true"

	teams, err := h.repo.ListTeams(c.Request.Context(), includeDeleted)
	if err != nil {
		respondDomainError(c, h.log, err, "listing teams")
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}

	c.JSON(http.StatusOK, teams)
}

// Get handles GET /teams/:id.
func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	team, err := h.repo.GetTeam(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "getting team")
		return
	}

	c.JSON(http.StatusOK, team)
}

// Create handles POST /teams.
func (h *TeamHandler) Create(c *gin.Context) {
	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	team, err := h.repo.CreateTeam(c.Request.Context(), actorEmail(c), req)
	if err != nil {
		respondDomainError(c, h.log, err, "creating team")
		return
	}

	c.JSON(http.StatusCreated, team)
}

// Update handles PUT /teams/:id.
func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	team, err := h.repo.UpdateTeam(c.Request.Context(), actorEmail(c), id, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating team")
		return
	}

	c.JSON(http.StatusOK, team)
}

// Delete handles DELETE /teams/:id. Deletion is soft: the team disappears
// from default listings but stays restorable.
func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteTeam(c.Request.Context(), actorEmail(c), id); err != nil {
		respondDomainError(c, h.log, err, "deleting team")
		return
	}

	c.Status(http.StatusNoContent)
}

// Restore handles POST /teams/:id/restore.
func (h *TeamHandler) Restore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	team, err := h.repo.RestoreTeam(c.Request.Context(), actorEmail(c), id)
	if err != nil {
		respondDomainError(c, h.log, err, "restoring team")
		return
	}

	c.JSON(http.StatusOK, team)
}

// RecordPayment handles POST /teams/:id/payment.
func (h *TeamHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.RecordPayment(c.Request.Context(), actorEmail(c), id); err != nil {
		respondDomainError(c, h.log, err, "recording payment")
		return
	}

	c.Status(http.StatusNoContent)
}

// AttachProduct handles POST /teams/:id/products/:product_id.
func (h *TeamHandler) AttachProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	productID := c.Param("product_id")
	if productID == "" {
		respondError(c, http.StatusBadRequest, models.ErrMissingProductID.Error())
		return
	}

	if err := h.repo.AttachProduct(c.Request.Context(), actorEmail(c), id, productID); err != nil {
		respondDomainError(c, h.log, err, "attaching product")
		return
	}

	c.Status(http.StatusNoContent)
}

// DetachProduct handles DELETE /teams/:id/products/:product_id.
func (h *TeamHandler) DetachProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	productID := c.Param("product_id")
	if productID == "" {
		respondError(c, http.StatusBadRequest, models.ErrMissingProductID.Error())
		return
	}

	if err := h.repo.DetachProduct(c.Request.Context(), actorEmail(c), id, productID); err != nil {
		respondDomainError(c, h.log, err, "detaching product")
		return
	}

	c.Status(http.StatusNoContent)
}

// Merge handles POST /teams/:id/merge. The path ID is the source team; the
// body names the target that absorbs its users and keys.
func (h *TeamHandler) Merge(c *gin.Context) {
	sourceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.MergeTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetTeamID <= 0 {
		respondError(c, http.StatusBadRequest, "target_team_id is required")
		return
	}

	result, err := h.repo.MergeTeams(c.Request.Context(), actorEmail(c), sourceID, req.TargetTeamID)
	if err != nil {
		respondDomainError(c, h.log, err, "merging teams")
		return
	}

	c.JSON(http.StatusOK, result)
}
