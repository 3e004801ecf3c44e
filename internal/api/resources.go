package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

// ResourceHandler serves limited-resource endpoints.
type ResourceHandler struct {
	repo ResourceRepository
	log  *logrus.Logger
}

// NewResourceHandler creates a ResourceHandler.
func NewResourceHandler(repo ResourceRepository, log *logrus.Logger) *ResourceHandler {
	return &ResourceHandler{repo: repo, log: log}
}

// ListByOwner handles GET /limited-resources. Requires owner_type and
// owner_id query parameters.
func (h *ResourceHandler) ListByOwner(c *gin.Context) {
	ownerType := c.Query("owner_type")
	if ownerType != "user" && ownerType != "team" {
		respondError(c, http.StatusBadRequest, "owner_type must be user or team")
		return
	}
	ownerID, ok := queryInt64(c, "owner_id")
	if !ok {
		return
	}
	if ownerID == nil {
		respondError(c, http.StatusBadRequest, "owner_id is required")
		return
	}

	limits, err := h.repo.ListByOwner(c.Request.Context(), ownerType, *ownerID)
	if err != nil {
		respondDomainError(c, h.log, err, "listing limited resources")
		return
	}
	if limits == nil {
		limits = []models.LimitedResource{}
	}

	c.JSON(http.StatusOK, limits)
}

// Get handles GET /limited-resources/:id.
func (h *ResourceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "getting limited resource")
		return
	}

	c.JSON(http.StatusOK, limit)
}

// SetOverride handles PUT /limited-resources/:id. Admin-gated in the router.
func (h *ResourceHandler) SetOverride(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.SetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := h.repo.SetOverride(c.Request.Context(), actorEmail(c), id, req)
	if err != nil {
		respondDomainError(c, h.log, err, "overriding limit")
		return
	}

	c.JSON(http.StatusOK, limit)
}

// ClearOverride handles DELETE /limited-resources/:id/override.
func (h *ResourceHandler) ClearOverride(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit, err := h.repo.ClearOverride(c.Request.Context(), actorEmail(c), id)
	if err != nil {
		respondDomainError(c, h.log, err, "clearing limit override")
		return
	}

	c.JSON(http.StatusOK, limit)
}
