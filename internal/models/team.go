// Package models defines data types for the keyfleet control plane.
package models

import (
	"strings"
	"time"
)

// Team is a billing and ownership unit for users and private AI keys.
type Team struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	AdminEmail   string     `json:"admin_email"`
	IsActive     bool       `json:"is_active"`
	IsAlwaysFree bool       `json:"is_always_free"`
	CreatedAt    time.Time  `json:"created_at"`
	LastPayment  *time.Time `json:"last_payment,omitempty"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`

	// Products holds the team's active product subscriptions when the
	// caller asked for them to be joined in. Nil means not loaded.
	Products []Product `json:"products,omitempty"`
}

// IsDeleted reports whether the team has been soft-deleted.
func (t *Team) IsDeleted() bool { return t.DeletedAt != nil }

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	Name         string `json:"name"`
	AdminEmail   string `json:"admin_email"`
	IsAlwaysFree bool   `json:"is_always_free"`
}

// Validate checks required fields on CreateTeamRequest.
func (r *CreateTeamRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrMissingName
	}
	if len(r.Name) > 255 {
		return ErrFieldTooLong("name", 255)
	}
	if strings.TrimSpace(r.AdminEmail) == "" {
		return ErrMissingEmail
	}
	return nil
}

// UpdateTeamRequest is the payload for updating a team. Nil fields are unchanged.
type UpdateTeamRequest struct {
	Name         *string `json:"name,omitempty"`
	AdminEmail   *string `json:"admin_email,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	IsAlwaysFree *bool   `json:"is_always_free,omitempty"`
}

// Validate checks UpdateTeamRequest fields.
func (r *UpdateTeamRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return ErrMissingName
		}
		if len(trimmed) > 255 {
			return ErrFieldTooLong("name", 255)
		}
		r.Name = &trimmed
	}
	if r.AdminEmail != nil && strings.TrimSpace(*r.AdminEmail) == "" {
		return ErrMissingEmail
	}
	return nil
}

// MergeTeamsRequest asks to reassign every user and key from the source team
// to the target team, then soft-delete the source.
type MergeTeamsRequest struct {
	TargetTeamID int64 `json:"target_team_id"`
}

// MergeResult reports what a team merge moved.
type MergeResult struct {
	SourceTeamID int64 `json:"source_team_id"`
	TargetTeamID int64 `json:"target_team_id"`
	MovedUsers   int   `json:"moved_users"`
	MovedKeys    int   `json:"moved_keys"`
}
