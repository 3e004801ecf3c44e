// Package middleware provides HTTP middleware for keyfleet.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

// AccessTokenCookie carries the session token for browser consoles. Bearer
// auth exists for pre-authenticated deep links and is mutually exclusive
// with the cookie on any given request.
const AccessTokenCookie = "access_token"

// authTimingFloor is the minimum response time for failed auth to prevent
// timing oracles distinguishing valid from invalid tokens.
const authTimingFloor = 50 * time.Millisecond

// Session identifies the authenticated actor on a request.
type Session struct {
	UserID int64
	Email  string
	Role   models.Role
}

// SessionLookup resolves a session token to an actor.
type SessionLookup interface {
	GetSessionByToken(ctx context.Context, token string) (*Session, error)
}

// Gin context keys set on successful authentication.
const (
	ActorEmailKey = "actor_email"
	ActorRoleKey  = "actor_role"
	ActorIDKey    = "actor_id"
)

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware authenticates requests via the access_token cookie or a
// Bearer token. Presenting both is rejected outright; a browser session and
// a deep-link token must never be mixed on one request.
func AuthMiddleware(lookup SessionLookup, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		cookieToken := cookieValue(c)
		bearerToken := ExtractBearerToken(c)

		if cookieToken != "" && bearerToken != "" {
			respondError(c, http.StatusBadRequest, "cookie and bearer authentication are mutually exclusive")
			return
		}

		token := cookieToken
		if token == "" {
			token = bearerToken
		}
		if token == "" {
			respondError(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		sess, err := lookup.GetSessionByToken(c.Request.Context(), token)
		if err != nil {
			logAuthFailure(log, c)
			respondError(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		c.Set(ActorEmailKey, sess.Email)
		c.Set(ActorRoleKey, string(sess.Role))
		c.Set(ActorIDKey, sess.UserID)
		c.Next()
	}
}

// RequireAdmin gates mutating admin surfaces to the admin role. It must run
// after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ActorRoleKey) != string(models.RoleAdmin) {
			respondError(c, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}

// cookieValue returns the access_token cookie, or empty if absent.
func cookieValue(c *gin.Context) string {
	v, err := c.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return v
}

// ExtractBearerToken extracts the token from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString(RequestIDKey),
	}).Warn("authentication failed: invalid session token")
}
