package client

import (
	"context"
	"net/http"
	"net/url"
)

// KeyService handles private AI key operations.
type KeyService struct {
	c *Client
}

// List returns keys matching the options.
func (s *KeyService) List(ctx context.Context, opts *KeyListOptions) ([]PrivateAIKey, error) {
	params := url.Values{}
	if opts != nil {
		if opts.OwnerID != nil {
			params.Set("owner_id", formatID(*opts.OwnerID))
		}
		if opts.TeamID != nil {
			params.Set("team_id", formatID(*opts.TeamID))
		}
		if opts.RegionID != nil {
			params.Set("region_id", formatID(*opts.RegionID))
		}
	}
	var keys []PrivateAIKey
	if err := s.c.get(ctx, "/api/private-ai-keys", params, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// Get returns a single key. The response never carries the database password.
func (s *KeyService) Get(ctx context.Context, id int64) (*PrivateAIKey, error) {
	var key PrivateAIKey
	if err := s.c.get(ctx, "/api/private-ai-keys/"+formatID(id), nil, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// Create provisions a key. This is the only response that carries the
// plaintext database password; store it immediately.
func (s *KeyService) Create(ctx context.Context, req *CreateKeyRequest) (*PrivateAIKey, error) {
	var key PrivateAIKey
	if err := s.c.post(ctx, "/api/private-ai-keys", req, &key, "/api/private-ai-keys"); err != nil {
		return nil, err
	}
	return &key, nil
}

// Update changes a key's name or budget settings.
func (s *KeyService) Update(ctx context.Context, id int64, req *UpdateKeyRequest) (*PrivateAIKey, error) {
	var key PrivateAIKey
	if err := s.c.put(ctx, "/api/private-ai-keys/"+formatID(id), req, &key, "/api/private-ai-keys"); err != nil {
		return nil, err
	}
	return &key, nil
}

// Delete deprovisions a key.
func (s *KeyService) Delete(ctx context.Context, id int64) error {
	return s.c.del(ctx, "/api/private-ai-keys/"+formatID(id), "/api/private-ai-keys")
}

// Token returns the key's LLM-gateway token. Admin only; every call is
// audit-logged server-side.
func (s *KeyService) Token(ctx context.Context, id int64) (string, error) {
	var resp struct {
		GatewayToken string `json:"litellm_token"`
	}
	// Deliberately uncached: token reads must always hit the server so the
	// audit trail sees them.
	if err := s.c.do(ctx, http.MethodGet, "/api/private-ai-keys/"+formatID(id)+"/token", nil, &resp); err != nil {
		return "", err
	}
	return resp.GatewayToken, nil
}

// Spend returns the key's spend against its budget window.
func (s *KeyService) Spend(ctx context.Context, id int64) (*SpendReport, error) {
	var report SpendReport
	if err := s.c.get(ctx, "/api/private-ai-keys/"+formatID(id)+"/spend", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// RecordSpend reports gateway usage against the key. An elapsed budget
// window resets spend to zero before the new amount is applied.
func (s *KeyService) RecordSpend(ctx context.Context, id int64, spend float64) (*PrivateAIKey, error) {
	body := struct {
		Spend float64 `json:"spend"`
	}{Spend: spend}

	var key PrivateAIKey
	if err := s.c.put(ctx, "/api/private-ai-keys/"+formatID(id)+"/spend", body, &key, "/api/private-ai-keys"); err != nil {
		return nil, err
	}
	return &key, nil
}
