package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

// RegionHandler serves region endpoints.
type RegionHandler struct {
	repo RegionRepository
	log  *logrus.Logger
}

// NewRegionHandler creates a RegionHandler.
func NewRegionHandler(repo RegionRepository, log *logrus.Logger) *RegionHandler {
	return &RegionHandler{repo: repo, log: log}
}

// List handles GET /regions. Inactive regions are hidden unless
// include_inactive=true.
func (h *RegionHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	regions, err := h.repo.ListRegions(c.Request.Context(), includeInactive)
	if err != nil {
		respondDomainError(c, h.log, err, "listing regions")
		return
	}
	if regions == nil {
		regions = []models.Region{}
	}

	c.JSON(http.StatusOK, regions)
}

// Get handles GET /regions/:id.
func (h *RegionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	region, err := h.repo.GetRegion(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "getting region")
		return
	}

	c.JSON(http.StatusOK, region)
}

// Create handles POST /regions.
func (h *RegionHandler) Create(c *gin.Context) {
	var req models.CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	region, err := h.repo.CreateRegion(c.Request.Context(), actorEmail(c), req)
	if err != nil {
		respondDomainError(c, h.log, err, "creating region")
		return
	}

	c.JSON(http.StatusCreated, region)
}

// Update handles PUT /regions/:id.
func (h *RegionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	region, err := h.repo.UpdateRegion(c.Request.Context(), actorEmail(c), id, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating region")
		return
	}

	c.JSON(http.StatusOK, region)
}

// Delete handles DELETE /regions/:id.
func (h *RegionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteRegion(c.Request.Context(), actorEmail(c), id); err != nil {
		respondDomainError(c, h.log, err, "deleting region")
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignTeams handles PUT /regions/:id/teams, replacing the dedicated
// allow-list wholesale.
func (h *RegionHandler) AssignTeams(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.AssignTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.repo.AssignTeams(c.Request.Context(), actorEmail(c), id, req.TeamIDs); err != nil {
		respondDomainError(c, h.log, err, "assigning teams to region")
		return
	}

	c.Status(http.StatusNoContent)
}
