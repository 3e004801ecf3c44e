package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingName      = errors.New("name is required")
	ErrMissingEmail     = errors.New("email is required")
	ErrMissingRegion    = errors.New("region_id is required")
	ErrMissingHost      = errors.New("postgres_host is required")
	ErrMissingProductID = errors.New("product id is required")
	ErrMissingOwner     = errors.New("exactly one of owner_id or team_id is required")
	ErrAmbiguousOwner   = errors.New("owner_id and team_id are mutually exclusive")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidUnit      = errors.New("invalid unit")
	ErrInvalidDuration  = errors.New("invalid budget duration")
)

// Sentinel errors for entity lookups.
var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrKeyNotFound      = errors.New("private AI key not found")
	ErrRegionNotFound   = errors.New("region not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrLimitNotFound    = errors.New("limited resource not found")
	ErrTeamDeleted      = errors.New("team is deleted")
	ErrRegionInactive   = errors.New("region is not active")
	ErrRegionNotAllowed = errors.New("dedicated region does not allow this team")
	ErrMergeSelf        = errors.New("cannot merge a team into itself")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
