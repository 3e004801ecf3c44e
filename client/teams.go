package client

import (
	"context"
	"net/url"
	"strconv"
)

// TeamService handles team operations.
type TeamService struct {
	c *Client
}

// teamDependents are the cache prefixes a structural team change dirties.
// Key listings join team ownership and user listings carry team affiliation,
// so both depend on teams.
var teamDependents = []string{"/api/teams", "/api/users", "/api/private-ai-keys"}

// List returns all teams. Soft-deleted teams are included when includeDeleted
// is true.
func (s *TeamService) List(ctx context.Context, includeDeleted bool) ([]Team, error) {
	params := url.Values{}
	if includeDeleted {
		params.Set("include_deleted", "true")
	}
	var teams []Team
	if err := s.c.get(ctx, "/api/teams", params, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Get returns a single team with its product subscriptions attached.
func (s *TeamService) Get(ctx context.Context, id int64) (*Team, error) {
	var team Team
	if err := s.c.get(ctx, "/api/teams/"+formatID(id), nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Create creates a new team.
func (s *TeamService) Create(ctx context.Context, req *CreateTeamRequest) (*Team, error) {
	var team Team
	if err := s.c.post(ctx, "/api/teams", req, &team, "/api/teams"); err != nil {
		return nil, err
	}
	return &team, nil
}

// Update updates a team.
func (s *TeamService) Update(ctx context.Context, id int64, req *UpdateTeamRequest) (*Team, error) {
	var team Team
	if err := s.c.put(ctx, "/api/teams/"+formatID(id), req, &team, "/api/teams"); err != nil {
		return nil, err
	}
	return &team, nil
}

// Delete soft-deletes a team.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	return s.c.del(ctx, "/api/teams/"+formatID(id), teamDependents...)
}

// Restore reverses a soft delete.
func (s *TeamService) Restore(ctx context.Context, id int64) (*Team, error) {
	var team Team
	if err := s.c.post(ctx, "/api/teams/"+formatID(id)+"/restore", nil, &team, "/api/teams"); err != nil {
		return nil, err
	}
	return &team, nil
}

// RecordPayment marks the team as paid now, restarting its trial clock.
func (s *TeamService) RecordPayment(ctx context.Context, id int64) error {
	return s.c.post(ctx, "/api/teams/"+formatID(id)+"/payment", nil, nil, "/api/teams")
}

// AttachProduct subscribes the team to a product.
func (s *TeamService) AttachProduct(ctx context.Context, teamID int64, productID string) error {
	path := "/api/teams/" + formatID(teamID) + "/products/" + url.PathEscape(productID)
	return s.c.post(ctx, path, nil, nil, "/api/teams")
}

// DetachProduct removes a product subscription from the team.
func (s *TeamService) DetachProduct(ctx context.Context, teamID int64, productID string) error {
	path := "/api/teams/" + formatID(teamID) + "/products/" + url.PathEscape(productID)
	return s.c.del(ctx, path, "/api/teams")
}

// Merge moves every user and key from the source team to the target team,
// then soft-deletes the source.
func (s *TeamService) Merge(ctx context.Context, sourceID, targetID int64) (*MergeResult, error) {
	body := struct {
		TargetTeamID int64 `json:"target_team_id"`
	}{TargetTeamID: targetID}

	var result MergeResult
	if err := s.c.post(ctx, "/api/teams/"+formatID(sourceID)+"/merge", body, &result, teamDependents...); err != nil {
		return nil, err
	}
	return &result, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
