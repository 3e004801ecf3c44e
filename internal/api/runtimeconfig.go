package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keyfleet/keyfleet/internal/config"
)

// RuntimeConfigHandler serves the unauthenticated GET /api/config endpoint.
// Consoles bootstrap from it before any sign-in happens, so it must only
// expose values that are safe to hand to an anonymous caller.
type RuntimeConfigHandler struct {
	cfg *config.Config
}

// NewRuntimeConfigHandler creates a RuntimeConfigHandler.
func NewRuntimeConfigHandler(cfg *config.Config) *RuntimeConfigHandler {
	return &RuntimeConfigHandler{cfg: cfg}
}

// runtimeConfig is the public runtime configuration payload.
type runtimeConfig struct {
	APIBaseURL           string `json:"api_base_url"`
	StripePublishableKey string `json:"stripe_publishable_key,omitempty"`
	PricingTableEnabled  bool   `json:"pricing_table_enabled"`
	EventsEnabled        bool   `json:"events_enabled"`
}

// Get handles GET /api/config.
func (h *RuntimeConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, runtimeConfig{
		APIBaseURL:           h.cfg.APIBaseURL,
		StripePublishableKey: h.cfg.StripePublishableKey,
		PricingTableEnabled:  h.cfg.EnablePricingTable,
		EventsEnabled:        h.cfg.EnableEvents,
	})
}
