package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/middleware"
	"github.com/keyfleet/keyfleet/internal/ws"
)

// actorEmail returns the authenticated actor's email from the Gin context.
func actorEmail(c *gin.Context) string {
	return c.GetString(middleware.ActorEmailKey)
}

// pathID parses a numeric path parameter. On failure it writes a 400 and
// returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt64 parses an optional numeric query parameter. Absent means nil.
func queryInt64(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &v, true
}

// maxPaginationLimit caps the maximum number of items per page.
const maxPaginationLimit = 500

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	if v > maxPaginationLimit {
		return maxPaginationLimit
	}
	return v
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		if actor := actorEmail(c); actor != "" {
			fields["actor"] = actor
		}
		log.WithFields(fields).Info("request")
	}
}

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string, lookup ws.SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract the raw token for periodic re-validation. The auth
		// middleware has already accepted it.
		token := middleware.ExtractBearerToken(c)
		if token == "" {
			token, _ = c.Cookie(middleware.AccessTokenCookie)
		}

		// CORS origins are reused as WebSocket origin patterns. The config
		// validator ensures these are safe host patterns (no wildcards).
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")
			return
		}

		client := ws.NewClient(hub, conn, lookup, token)
		hub.Register(client)

		// Derive a context that cancels when either the server shuts down
		// or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}
