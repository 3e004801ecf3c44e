package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/config"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// PricingTableSession is what the embedded Stripe pricing table needs to
// render for a signed-in customer.
type PricingTableSession struct {
	PublishableKey string `json:"publishable_key"`
	PricingTableID string `json:"pricing_table_id"`
	ClientSecret   string `json:"client_secret,omitempty"`
}

// BillingService brokers pricing-table sessions against the Stripe API.
type BillingService struct {
	cfg    *config.Config
	client *http.Client
	log    *logrus.Logger
}

// NewBillingService creates a BillingService.
func NewBillingService(cfg *config.Config, log *logrus.Logger) *BillingService {
	return &BillingService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// Enabled reports whether the pricing table feature is configured.
func (s *BillingService) Enabled() bool {
	return s.cfg.EnablePricingTable && s.cfg.StripePublishableKey != "" && s.cfg.StripePricingTableID != ""
}

// CreateSession returns the pricing-table bootstrap payload. When a Stripe
// customer ID is known, a customer session scopes the table to that customer;
// without one the table renders anonymously.
func (s *BillingService) CreateSession(ctx context.Context, stripeCustomerID string) (*PricingTableSession, error) {
	session := &PricingTableSession{
		PublishableKey: s.cfg.StripePublishableKey,
		PricingTableID: s.cfg.StripePricingTableID,
	}

	if stripeCustomerID == "" || s.cfg.StripeSecretKey.Value() == "" {
		return session, nil
	}

	secret, err := s.createCustomerSession(ctx, stripeCustomerID)
	if err != nil {
		// The table still works unscoped; log and degrade.
		s.log.WithError(err).Warn("stripe customer session failed, returning unscoped pricing table")
		return session, nil
	}
	session.ClientSecret = secret

	return session, nil
}

func (s *BillingService) createCustomerSession(ctx context.Context, customerID string) (string, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("components[pricing_table][enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		stripeAPIBase+"/customer_sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building stripe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.StripeSecretKey.Value(), "")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling stripe: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading stripe response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stripe returned status %d", resp.StatusCode)
	}

	var parsed struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding stripe response: %w", err)
	}

	return parsed.ClientSecret, nil
}
