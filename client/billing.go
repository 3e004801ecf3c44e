package client

import (
	"context"
	"net/http"
)

// BillingService handles pricing-table operations.
type BillingService struct {
	c *Client
}

// PricingTableSession returns what a console needs to embed the hosted
// pricing table. Pass an empty customer ID for an unscoped table.
func (s *BillingService) PricingTableSession(ctx context.Context, stripeCustomerID string) (*PricingTableSession, error) {
	body := struct {
		StripeCustomerID string `json:"stripe_customer_id,omitempty"`
	}{StripeCustomerID: stripeCustomerID}

	var session PricingTableSession
	if err := s.c.do(ctx, http.MethodPost, "/api/billing/pricing-table-session", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
