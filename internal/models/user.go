package models

import (
	"strings"
	"time"
)

// Role is a user's access level in the admin console.
type Role string

// Recognized roles.
const (
	RoleAdmin      Role = "admin"
	RoleKeyCreator Role = "key_creator"
	RoleReadOnly   Role = "read_only"
	RoleSales      Role = "sales"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleKeyCreator, RoleReadOnly, RoleSales:
		return true
	}
	return false
}

// User is an operator account. Team affiliation is optional.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	TeamID    *int64    `json:"team_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	TeamID *int64 `json:"team_id,omitempty"`
}

// Validate checks required fields on CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if r.Role == "" {
		r.Role = RoleReadOnly
	}
	if !r.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// UpdateUserRequest is the payload for updating a user. Nil fields are unchanged.
// ClearTeam removes the team affiliation; it wins over TeamID when both are set.
type UpdateUserRequest struct {
	Role      *Role  `json:"role,omitempty"`
	TeamID    *int64 `json:"team_id,omitempty"`
	ClearTeam bool   `json:"clear_team,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// Validate checks UpdateUserRequest fields.
func (r *UpdateUserRequest) Validate() error {
	if r.Role != nil && !r.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
