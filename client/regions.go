package client

import (
	"context"
	"net/url"
)

// RegionService handles region operations.
type RegionService struct {
	c *Client
}

// List returns regions. Inactive regions are included when includeInactive
// is true.
func (s *RegionService) List(ctx context.Context, includeInactive bool) ([]Region, error) {
	params := url.Values{}
	if includeInactive {
		params.Set("include_inactive", "true")
	}
	var regions []Region
	if err := s.c.get(ctx, "/api/regions", params, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// Get returns a single region by ID.
func (s *RegionService) Get(ctx context.Context, id int64) (*Region, error) {
	var region Region
	if err := s.c.get(ctx, "/api/regions/"+formatID(id), nil, &region); err != nil {
		return nil, err
	}
	return &region, nil
}

// Create creates a new region.
func (s *RegionService) Create(ctx context.Context, req *CreateRegionRequest) (*Region, error) {
	var region Region
	if err := s.c.post(ctx, "/api/regions", req, &region, "/api/regions"); err != nil {
		return nil, err
	}
	return &region, nil
}

// Update updates a region.
func (s *RegionService) Update(ctx context.Context, id int64, req *UpdateRegionRequest) (*Region, error) {
	var region Region
	if err := s.c.put(ctx, "/api/regions/"+formatID(id), req, &region, "/api/regions"); err != nil {
		return nil, err
	}
	return &region, nil
}

// Delete removes a region. Fails while keys are still provisioned in it.
func (s *RegionService) Delete(ctx context.Context, id int64) error {
	return s.c.del(ctx, "/api/regions/"+formatID(id), "/api/regions")
}

// AssignTeams replaces a dedicated region's team allow-list.
func (s *RegionService) AssignTeams(ctx context.Context, regionID int64, teamIDs []int64) error {
	body := struct {
		TeamIDs []int64 `json:"team_ids"`
	}{TeamIDs: teamIDs}

	return s.c.put(ctx, "/api/regions/"+formatID(regionID)+"/teams", body, nil, "/api/regions")
}
