package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body at limit bytes. Reads past the cap fail
// with http.MaxBytesError, which the handlers surface as 413.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if body := c.Request.Body; body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, body, limit)
		}
		c.Next()
	}
}
