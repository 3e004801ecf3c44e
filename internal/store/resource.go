package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keyfleet/keyfleet/internal/models"
)

// ResourceStore provides data access for limited resources.
type ResourceStore struct {
	Base
}

// NewResourceStore creates a ResourceStore.
func NewResourceStore(base Base) *ResourceStore {
	return &ResourceStore{Base: base}
}

const resourceColumns = "id, owner_type, owner_id, resource, limit_type, current_value, max_value, unit, source, updated_at"

func scanResource(row pgx.Row) (*models.LimitedResource, error) {
	var r models.LimitedResource
	err := row.Scan(
		&r.ID, &r.OwnerType, &r.OwnerID, &r.Resource, &r.LimitType,
		&r.Current, &r.Max, &r.Unit, &r.Provenance, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrLimitNotFound
		}
		return nil, fmt.Errorf("scanning limited resource: %w", err)
	}
	return &r, nil
}

// ListByOwner returns all limits for one owner.
func (s *ResourceStore) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.LimitedResource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT "+resourceColumns+` FROM limited_resources
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY resource, limit_type`,
		ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying limited resources: %w", err)
	}
	defer rows.Close()

	var limits []models.LimitedResource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		limits = append(limits, *r)
	}

	return limits, rows.Err()
}

// Get returns a single limit by ID.
func (s *ResourceStore) Get(ctx context.Context, id int64) (*models.LimitedResource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return scanResource(s.Pool.QueryRow(ctx,
		"SELECT "+resourceColumns+" FROM limited_resources WHERE id = $1", id))
}

// SetOverride raises or lowers a limit's ceiling manually. The row's source
// becomes "override", which shields it from product-driven recomputation.
func (s *ResourceStore) SetOverride(ctx context.Context, id int64, req models.SetLimitRequest) (*models.LimitedResource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return scanResource(s.Pool.QueryRow(ctx, `
		UPDATE limited_resources
		SET max_value = $2, unit = $3, source = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+resourceColumns,
		id, req.Max, req.Unit, models.ProvenanceOverride,
	))
}

// ClearOverride drops a manual override back to the default provenance. The
// next product sync recomputes the ceiling.
func (s *ResourceStore) ClearOverride(ctx context.Context, id int64) (*models.LimitedResource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return scanResource(s.Pool.QueryRow(ctx, `
		UPDATE limited_resources
		SET source = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+resourceColumns,
		id, models.ProvenanceDefault,
	))
}

// Upsert records the current ceiling for one (owner, resource, limit_type)
// tuple. Rows under manual override keep their ceiling.
func (s *ResourceStore) Upsert(ctx context.Context, r models.LimitedResource) (*models.LimitedResource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return scanResource(s.Pool.QueryRow(ctx, `
		INSERT INTO limited_resources (owner_type, owner_id, resource, limit_type, current_value, max_value, unit, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_type, owner_id, resource, limit_type) DO UPDATE SET
			current_value = EXCLUDED.current_value,
			max_value = CASE WHEN limited_resources.source = 'override'
				THEN limited_resources.max_value ELSE EXCLUDED.max_value END,
			unit = EXCLUDED.unit,
			source = CASE WHEN limited_resources.source = 'override'
				THEN limited_resources.source ELSE EXCLUDED.source END,
			updated_at = NOW()
		RETURNING `+resourceColumns,
		r.OwnerType, r.OwnerID, r.Resource, r.LimitType, r.Current, r.Max, r.Unit, r.Provenance,
	))
}

// UpdateUsage sets the measured current value on a limit.
func (s *ResourceStore) UpdateUsage(ctx context.Context, id int64, current float64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		"UPDATE limited_resources SET current_value = $2, updated_at = NOW() WHERE id = $1",
		id, current)
	if err != nil {
		return fmt.Errorf("updating usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrLimitNotFound
	}

	return nil
}
