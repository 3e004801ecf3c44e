package models

import (
	"strconv"
	"strings"
	"time"
)

// OwnerKind classifies who holds a private AI key.
type OwnerKind string

// Owner kinds. Legacy rows can carry neither an owner nor a team; they are
// readable and reported as OwnerUnknown, but creation always rejects that state.
const (
	OwnerUser    OwnerKind = "user"
	OwnerTeam    OwnerKind = "team"
	OwnerUnknown OwnerKind = "unknown"
)

// DatabaseCredentials is the provisioned datastore credential bundle.
// The password is encrypted at rest and only returned once, on creation.
type DatabaseCredentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// PrivateAIKey is a provisioned credential bundle (database plus optional
// LLM-gateway token) scoped to exactly one user or one team.
type PrivateAIKey struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	OwnerID        *int64              `json:"owner_id,omitempty"`
	TeamID         *int64              `json:"team_id,omitempty"`
	RegionID       int64               `json:"region_id"`
	Credentials    DatabaseCredentials `json:"credentials"`
	GatewayToken   string              `json:"litellm_token,omitempty"`
	MaxBudget      *float64            `json:"max_budget,omitempty"`
	BudgetDuration string              `json:"budget_duration,omitempty"`
	BudgetResetAt  *time.Time          `json:"budget_reset_at,omitempty"`
	Spend          float64             `json:"spend"`
	CreatedAt      time.Time           `json:"created_at"`
}

// OwnerKind reports whether the key belongs to a user, a team, or neither.
func (k *PrivateAIKey) OwnerKind() OwnerKind {
	switch {
	case k.OwnerID != nil:
		return OwnerUser
	case k.TeamID != nil:
		return OwnerTeam
	default:
		return OwnerUnknown
	}
}

// CreateKeyRequest is the payload for provisioning a private AI key.
type CreateKeyRequest struct {
	Name           string   `json:"name"`
	OwnerID        *int64   `json:"owner_id,omitempty"`
	TeamID         *int64   `json:"team_id,omitempty"`
	RegionID       int64    `json:"region_id"`
	MaxBudget      *float64 `json:"max_budget,omitempty"`
	BudgetDuration string   `json:"budget_duration,omitempty"`
}

// Validate enforces the ownership invariant: exactly one of owner_id and
// team_id must be set, never both and never neither.
func (r *CreateKeyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrMissingName
	}
	if len(r.Name) > 255 {
		return ErrFieldTooLong("name", 255)
	}
	if r.RegionID == 0 {
		return ErrMissingRegion
	}
	if r.OwnerID != nil && r.TeamID != nil {
		return ErrAmbiguousOwner
	}
	if r.OwnerID == nil && r.TeamID == nil {
		return ErrMissingOwner
	}
	if r.BudgetDuration != "" {
		if _, err := ParseBudgetDuration(r.BudgetDuration); err != nil {
			return err
		}
	}
	return nil
}

// UpdateKeyRequest is the payload for updating a key's budget settings.
type UpdateKeyRequest struct {
	Name           *string  `json:"name,omitempty"`
	MaxBudget      *float64 `json:"max_budget,omitempty"`
	BudgetDuration *string  `json:"budget_duration,omitempty"`
}

// Validate checks UpdateKeyRequest fields.
func (r *UpdateKeyRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrMissingName
	}
	if r.BudgetDuration != nil && *r.BudgetDuration != "" {
		if _, err := ParseBudgetDuration(*r.BudgetDuration); err != nil {
			return err
		}
	}
	return nil
}

// ParseBudgetDuration parses a recurring budget reset period of the form
// "<N>d" (days) or "<N>h" (hours), e.g. "30d".
func ParseBudgetDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, ErrInvalidDuration
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, ErrInvalidDuration
	}
	switch unit {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	default:
		return 0, ErrInvalidDuration
	}
}
