package models

import "time"

// LimitUnit is the unit a limited resource is measured in.
type LimitUnit string

// Recognized units.
const (
	UnitCount    LimitUnit = "count"
	UnitDollar   LimitUnit = "dollar"
	UnitGigabyte LimitUnit = "gigabyte"
)

// Valid reports whether u is a recognized unit.
func (u LimitUnit) Valid() bool {
	switch u {
	case UnitCount, UnitDollar, UnitGigabyte:
		return true
	}
	return false
}

// LimitProvenance records where a limit's max value came from.
type LimitProvenance string

// Provenance values. Product-derived limits follow the owner's subscription,
// defaults apply when no product covers the resource, and overrides are
// manual admin adjustments that survive product changes.
const (
	ProvenanceProduct  LimitProvenance = "product"
	ProvenanceDefault  LimitProvenance = "default"
	ProvenanceOverride LimitProvenance = "override"
)

// LimitedResource tracks current usage against a ceiling for one
// (owner_type, owner_id, resource, limit_type) tuple.
type LimitedResource struct {
	ID         int64           `json:"id"`
	OwnerType  string          `json:"owner_type"`
	OwnerID    int64           `json:"owner_id"`
	Resource   string          `json:"resource"`
	LimitType  string          `json:"limit_type"`
	Current    float64         `json:"current_value"`
	Max        float64         `json:"max_value"`
	Unit       LimitUnit       `json:"unit"`
	Provenance LimitProvenance `json:"source"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// SetLimitRequest manually overrides a limit's max value.
type SetLimitRequest struct {
	Max  float64   `json:"max_value"`
	Unit LimitUnit `json:"unit"`
}

// Validate checks SetLimitRequest fields.
func (r *SetLimitRequest) Validate() error {
	if r.Unit == "" {
		r.Unit = UnitCount
	}
	if !r.Unit.Valid() {
		return ErrInvalidUnit
	}
	return nil
}
