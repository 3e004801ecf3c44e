// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// RespondError writes the API's standard error envelope and aborts the
// request. Consoles surface the detail string verbatim, so it must be safe
// to show an end user.
func RespondError(c *gin.Context, status int, detail string) {
	resp := gin.H{"detail": detail}

	if rid, exists := c.Get("request_id"); exists {
		if s, ok := rid.(string); ok && s != "" {
			resp["request_id"] = s
		}
	}

	c.AbortWithStatusJSON(status, resp)
}
