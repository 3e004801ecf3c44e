package models

import (
	"strings"
	"time"
)

// Product is a purchasable plan with entitlement limits. The ID is issued by
// the billing provider, not generated locally.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	UserCount    int       `json:"user_count"`
	KeysPerUser  int       `json:"keys_per_user"`
	KeyBudget    float64   `json:"total_budget_per_key"`
	RPMPerKey    int       `json:"rpm_per_key"`
	VectorDBGB   int       `json:"vector_db_storage"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateProductRequest is the payload for registering a product.
type CreateProductRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	UserCount   int     `json:"user_count"`
	KeysPerUser int     `json:"keys_per_user"`
	KeyBudget   float64 `json:"total_budget_per_key"`
	RPMPerKey   int     `json:"rpm_per_key"`
	VectorDBGB  int     `json:"vector_db_storage"`
}

// Validate checks required fields on CreateProductRequest.
func (r *CreateProductRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrMissingProductID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// UpdateProductRequest is the payload for updating a product. Nil fields are unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	UserCount   *int     `json:"user_count,omitempty"`
	KeysPerUser *int     `json:"keys_per_user,omitempty"`
	KeyBudget   *float64 `json:"total_budget_per_key,omitempty"`
	RPMPerKey   *int     `json:"rpm_per_key,omitempty"`
	VectorDBGB  *int     `json:"vector_db_storage,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// Validate checks UpdateProductRequest fields.
func (r *UpdateProductRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrMissingName
	}
	return nil
}
