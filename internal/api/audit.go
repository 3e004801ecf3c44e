package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

// AuditHandler serves audit log queries.
type AuditHandler struct {
	repo AuditRepository
	log  *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(repo AuditRepository, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{repo: repo, log: log}
}

// Query handles GET /audit-logs. Responses use the {items, total} envelope
// so consoles can render page controls without a second request.
func (h *AuditHandler) Query(c *gin.Context) {
	opts := models.AuditQueryOpts{
		ActorEmail:   c.Query("user_email"),
		EventType:    c.Query("event_type"),
		ResourceType: c.Query("resource_type"),
		Action:       c.Query("action"),
		Page:         parseInt(c.DefaultQuery("page", "1"), 1),
		PageSize:     parseInt(c.DefaultQuery("page_size", "50"), 50),
	}

	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "since must be an RFC 3339 timestamp")
			return
		}
		opts.Since = &since
	}

	page, err := h.repo.Query(c.Request.Context(), opts)
	if err != nil {
		respondDomainError(c, h.log, err, "querying audit log")
		return
	}

	c.JSON(http.StatusOK, page)
}
