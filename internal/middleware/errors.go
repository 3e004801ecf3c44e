package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/keyfleet/keyfleet/internal/httputil"
)

// respondError delegates to the shared httputil.RespondError helper.
func respondError(c *gin.Context, status int, detail string) {
	httputil.RespondError(c, status, detail)
}
