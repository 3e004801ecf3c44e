package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/middleware"
	"github.com/keyfleet/keyfleet/internal/models"
)

type staticLookup struct {
	token string
	sess  *middleware.Session
}

func (s *staticLookup) GetSessionByToken(_ context.Context, token string) (*middleware.Session, error) {
	if s.sess != nil && token == s.token {
		return s.sess, nil
	}
	return nil, errors.New("no such session")
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAuthRouter(lookup middleware.SessionLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(lookup, testLogger()))
	r.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(middleware.ActorEmailKey)})
	})
	return r
}

func adminLookup() *staticLookup {
	return &staticLookup{
		token: "tok-1",
		sess:  &middleware.Session{UserID: 1, Email: "root@keyfleet.io", Role: models.RoleAdmin},
	}
}

func TestAuth_CookieAccepted(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(adminLookup())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "tok-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuth_BearerAccepted(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(adminLookup())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuth_CookieAndBearerRejected(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(adminLookup())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "tok-1"})
	req.Header.Set("Authorization", "Bearer tok-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mixed auth, got %d", w.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(adminLookup())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(adminLookup())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	lookup := &staticLookup{
		token: "tok-ro",
		sess:  &middleware.Session{UserID: 2, Email: "viewer@keyfleet.io", Role: models.RoleReadOnly},
	}

	r := gin.New()
	r.Use(middleware.AuthMiddleware(lookup, testLogger()))
	r.Use(middleware.RequireAdmin())
	r.DELETE("/teams/1", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodDelete, "/teams/1", nil)
	req.Header.Set("Authorization", "Bearer tok-ro")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for read_only role, got %d", w.Code)
	}
}

func TestCachedSessionLookup_CachesHits(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := lookupFunc(func(_ context.Context, token string) (*middleware.Session, error) {
		calls++
		if token != "tok-1" {
			return nil, errors.New("no such session")
		}
		return &middleware.Session{UserID: 1, Email: "root@keyfleet.io", Role: models.RoleAdmin}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cached := middleware.NewCachedSessionLookup(ctx, inner)

	for range 3 {
		if _, err := cached.GetSessionByToken(ctx, "tok-1"); err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 inner call, got %d", calls)
	}

	// Negative caching: repeated bad tokens hit the database once.
	for range 3 {
		if _, err := cached.GetSessionByToken(ctx, "bad"); err == nil {
			t.Fatal("expected error for bad token")
		}
	}

	if calls != 2 {
		t.Errorf("expected 2 inner calls after negative caching, got %d", calls)
	}
}

type lookupFunc func(ctx context.Context, token string) (*middleware.Session, error)

func (f lookupFunc) GetSessionByToken(ctx context.Context, token string) (*middleware.Session, error) {
	return f(ctx, token)
}
