package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the gin context key holding the canonical request ID.
const RequestIDKey = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a server-generated UUID and echoes it in
// the X-Request-ID response header. A client-supplied X-Request-ID is never
// trusted as the canonical ID; it is kept alongside for log correlation.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(RequestIDKey, id)
		c.Header(requestIDHeader, id)

		if fromClient := c.GetHeader(requestIDHeader); fromClient != "" {
			c.Set("client_request_id", fromClient)
			log.WithFields(logrus.Fields{
				"request_id":        id,
				"client_request_id": fromClient,
			}).Debug("remapped client request id")
		}

		c.Next()
	}
}
