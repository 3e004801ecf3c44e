package client

import (
	"context"
	"net/http"
	"net/url"
)

// ResourceService handles limited-resource (usage limit) operations.
type ResourceService struct {
	c *Client
}

// ListByOwner returns every tracked limit for one owner. ownerType is
// "user" or "team".
func (s *ResourceService) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]LimitedResource, error) {
	params := url.Values{}
	params.Set("owner_type", ownerType)
	params.Set("owner_id", formatID(ownerID))

	var limits []LimitedResource
	if err := s.c.get(ctx, "/api/limited-resources", params, &limits); err != nil {
		return nil, err
	}
	return limits, nil
}

// Get returns a single limit by ID.
func (s *ResourceService) Get(ctx context.Context, id int64) (*LimitedResource, error) {
	var limit LimitedResource
	if err := s.c.get(ctx, "/api/limited-resources/"+formatID(id), nil, &limit); err != nil {
		return nil, err
	}
	return &limit, nil
}

// SetOverride manually overrides a limit's max value. Overrides survive
// product changes until cleared.
func (s *ResourceService) SetOverride(ctx context.Context, id int64, req *SetLimitRequest) (*LimitedResource, error) {
	var limit LimitedResource
	if err := s.c.put(ctx, "/api/limited-resources/"+formatID(id), req, &limit, "/api/limited-resources"); err != nil {
		return nil, err
	}
	return &limit, nil
}

// ClearOverride reverts a limit to its product-derived or default value.
func (s *ResourceService) ClearOverride(ctx context.Context, id int64) (*LimitedResource, error) {
	var limit LimitedResource
	if err := s.c.do(ctx, http.MethodDelete, "/api/limited-resources/"+formatID(id)+"/override", nil, &limit); err != nil {
		return nil, err
	}
	s.c.Invalidate("/api/limited-resources")
	return &limit, nil
}
