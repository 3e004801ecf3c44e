package models

import (
	"strings"
	"time"
)

// Region is a named deployment target with its own datastore and gateway
// endpoint. Dedicated regions are restricted to an explicit team allow-list.
type Region struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PostgresHost string    `json:"postgres_host"`
	PostgresPort int       `json:"postgres_port"`
	GatewayURL   string    `json:"litellm_api_url"`
	GatewayKey   string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsDedicated  bool      `json:"is_dedicated"`
	CreatedAt    time.Time `json:"created_at"`

	// TeamIDs is the allow-list for dedicated regions. Nil means not loaded.
	TeamIDs []int64 `json:"team_ids,omitempty"`
}

// AllowsTeam reports whether a key for the given team may be provisioned in
// this region. Shared regions allow everyone.
func (r *Region) AllowsTeam(teamID int64) bool {
	if !r.IsDedicated {
		return true
	}
	for _, id := range r.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// CreateRegionRequest is the payload for creating a region.
type CreateRegionRequest struct {
	Name         string `json:"name"`
	PostgresHost string `json:"postgres_host"`
	PostgresPort int    `json:"postgres_port"`
	GatewayURL   string `json:"litellm_api_url"`
	GatewayKey   string `json:"litellm_api_key"`
	IsDedicated  bool   `json:"is_dedicated"`
}

// Validate checks required fields on CreateRegionRequest.
func (r *CreateRegionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.PostgresHost) == "" {
		return ErrMissingHost
	}
	if r.PostgresPort == 0 {
		r.PostgresPort = 5432
	}
	return nil
}

// UpdateRegionRequest is the payload for updating a region. Nil fields are unchanged.
type UpdateRegionRequest struct {
	Name        *string `json:"name,omitempty"`
	GatewayURL  *string `json:"litellm_api_url,omitempty"`
	GatewayKey  *string `json:"litellm_api_key,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsDedicated *bool   `json:"is_dedicated,omitempty"`
}

// Validate checks UpdateRegionRequest fields.
func (r *UpdateRegionRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// AssignTeamsRequest replaces a dedicated region's team allow-list.
type AssignTeamsRequest struct {
	TeamIDs []int64 `json:"team_ids"`
}
