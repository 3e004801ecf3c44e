package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/config"
	"github.com/keyfleet/keyfleet/internal/middleware"
	"github.com/keyfleet/keyfleet/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log           *logrus.Logger
	Cfg           *config.Config
	Pool          Pinger
	Hub           *ws.Hub
	Teams         TeamRepository
	Users         UserRepository
	Keys          KeyRepository
	Regions       RegionRepository
	Products      ProductRepository
	Resources     ResourceRepository
	Audit         AuditRepository
	Billing       BillingRepository
	SessionLookup middleware.SessionLookup
	Version       string
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB; admin payloads are small
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins: deps.Cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       1 * time.Hour,
		// Cookie auth requires credentialed CORS; the config validator
		// rejects wildcard origins so this stays safe.
		AllowCredentials: true,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers.
func registerRoutes(ctx context.Context, root *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	runtimeCfg := NewRuntimeConfigHandler(deps.Cfg)
	teams := NewTeamHandler(deps.Teams, log)
	users := NewUserHandler(deps.Users, log)
	keys := NewKeyHandler(deps.Keys, log)
	regions := NewRegionHandler(deps.Regions, log)
	products := NewProductHandler(deps.Products, log)
	resources := NewResourceHandler(deps.Resources, log)
	audit := NewAuditHandler(deps.Audit, log)
	billing := NewBillingHandler(deps.Billing, log)

	// Health, readiness, and runtime config are unauthenticated.
	root.GET("/health", health.Liveness)
	root.GET("/ready", health.Readiness)
	root.GET("/config", runtimeCfg.Get)

	// All other API routes require authentication.
	api := root.Group("")
	api.Use(middleware.AuthMiddleware(middleware.NewCachedSessionLookup(ctx, deps.SessionLookup), log))

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())

	// Teams.
	api.GET("/teams", teams.List)
	api.GET("/teams/:id", teams.Get)
	admin.POST("/teams", teams.Create)
	admin.PUT("/teams/:id", teams.Update)
	admin.DELETE("/teams/:id", teams.Delete)
	admin.POST("/teams/:id/restore", teams.Restore)
	admin.POST("/teams/:id/payment", teams.RecordPayment)
	admin.POST("/teams/:id/products/:product_id", teams.AttachProduct)
	admin.DELETE("/teams/:id/products/:product_id", teams.DetachProduct)
	admin.POST("/teams/:id/merge", teams.Merge)

	// Users.
	api.GET("/users", users.List)
	api.GET("/users/:id", users.Get)
	admin.POST("/users", users.Create)
	admin.PUT("/users/:id", users.Update)
	admin.DELETE("/users/:id", users.Delete)

	// Private AI keys.
	api.GET("/private-ai-keys", keys.List)
	api.GET("/private-ai-keys/:id", keys.Get)
	api.POST("/private-ai-keys", keys.Create)
	api.PUT("/private-ai-keys/:id", keys.Update)
	api.DELETE("/private-ai-keys/:id", keys.Delete)
	api.GET("/private-ai-keys/:id/spend", keys.Spend)
	api.PUT("/private-ai-keys/:id/spend", keys.RecordSpend)
	admin.GET("/private-ai-keys/:id/token", keys.Token)

	// Regions.
	api.GET("/regions", regions.List)
	api.GET("/regions/:id", regions.Get)
	admin.POST("/regions", regions.Create)
	admin.PUT("/regions/:id", regions.Update)
	admin.DELETE("/regions/:id", regions.Delete)
	admin.PUT("/regions/:id/teams", regions.AssignTeams)

	// Products.
	api.GET("/products", products.List)
	api.GET("/products/:id", products.Get)
	admin.POST("/products", products.Create)
	admin.PUT("/products/:id", products.Update)
	admin.DELETE("/products/:id", products.Delete)

	// Limited resources.
	api.GET("/limited-resources", resources.ListByOwner)
	api.GET("/limited-resources/:id", resources.Get)
	admin.PUT("/limited-resources/:id", resources.SetOverride)
	admin.DELETE("/limited-resources/:id/override", resources.ClearOverride)

	// Audit log.
	api.GET("/audit-logs", audit.Query)

	// Billing.
	api.POST("/billing/pricing-table-session", billing.PricingTableSession)

	// WebSocket change events.
	if deps.Cfg.EnableEvents && deps.Hub != nil {
		api.GET("/events", wsHandler(ctx, log, deps.Hub, deps.Cfg.CORSOrigins, deps.SessionLookup))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api"), deps)

	return r
}
