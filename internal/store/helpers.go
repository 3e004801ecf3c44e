package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/keyfleet/keyfleet/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// mapDuplicate converts a unique-violation error into models.ErrDuplicateKey,
// leaving other errors untouched.
func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return models.ErrDuplicateKey
	}
	return err
}
