package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keyfleet/keyfleet/internal/models"
)

// RegionStore provides data access for the regions table and the dedicated
// team allow-list.
type RegionStore struct {
	Base
}

// NewRegionStore creates a RegionStore.
func NewRegionStore(base Base) *RegionStore {
	return &RegionStore{Base: base}
}

const regionColumns = "id, name, postgres_host, postgres_port, gateway_url, is_active, is_dedicated, created_at"

func scanRegion(row pgx.Row) (*models.Region, error) {
	var r models.Region
	err := row.Scan(
		&r.ID, &r.Name, &r.PostgresHost, &r.PostgresPort, &r.GatewayURL,
		&r.IsActive, &r.IsDedicated, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRegionNotFound
		}
		return nil, fmt.Errorf("scanning region: %w", err)
	}
	return &r, nil
}

// ListRegions returns all regions, optionally including inactive ones, with
// dedicated allow-lists attached.
func (s *RegionStore) ListRegions(ctx context.Context, includeInactive bool) ([]models.Region, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := "SELECT " + regionColumns + " FROM regions"
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY id"

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying regions: %w", err)
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		r, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		regions = append(regions, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating regions: %w", err)
	}

	if err := s.attachTeams(ctx, regions); err != nil {
		return nil, err
	}

	return regions, nil
}

// attachTeams loads dedicated allow-lists for every region in one query.
func (s *RegionStore) attachTeams(ctx context.Context, regions []models.Region) error {
	if len(regions) == 0 {
		return nil
	}

	idx := make(map[int64]*models.Region, len(regions))
	ids := make([]int64, 0, len(regions))
	for i := range regions {
		idx[regions[i].ID] = &regions[i]
		ids = append(ids, regions[i].ID)
	}

	rows, err := s.Pool.Query(ctx,
		"SELECT region_id, team_id FROM region_teams WHERE region_id = ANY($1)", ids)
	if err != nil {
		return fmt.Errorf("querying region teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var regionID, teamID int64
		if err := rows.Scan(&regionID, &teamID); err != nil {
			return fmt.Errorf("scanning region team: %w", err)
		}
		if r, ok := idx[regionID]; ok {
			r.TeamIDs = append(r.TeamIDs, teamID)
		}
	}

	return rows.Err()
}

// GetRegion returns a single region by ID with its allow-list attached.
func (s *RegionStore) GetRegion(ctx context.Context, id int64) (*models.Region, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	r, err := scanRegion(s.Pool.QueryRow(ctx,
		"SELECT "+regionColumns+" FROM regions WHERE id = $1", id))
	if err != nil {
		return nil, err
	}

	regions := []models.Region{*r}
	if err := s.attachTeams(ctx, regions); err != nil {
		return nil, err
	}

	return &regions[0], nil
}

// GatewayKey decrypts and returns a region's gateway API key.
func (s *RegionStore) GatewayKey(ctx context.Context, id int64) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var enc string
	err := s.Pool.QueryRow(ctx,
		"SELECT gateway_key_encrypted FROM regions WHERE id = $1", id).Scan(&enc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrRegionNotFound
		}
		return "", fmt.Errorf("querying gateway key: %w", err)
	}

	plain, err := s.Crypto.Decrypt(regionScope(id), enc)
	if err != nil {
		return "", fmt.Errorf("decrypting gateway key: %w", err)
	}

	return string(plain), nil
}

// regionScope is the crypto AAD scope for a region's gateway key.
func regionScope(id int64) string {
	return fmt.Sprintf("region:%d", id)
}

// CreateRegion inserts a region, sealing the gateway key before storage.
// The key is encrypted under a post-insert scope, so the insert and the
// key write happen in one transaction.
func (s *RegionStore) CreateRegion(ctx context.Context, req models.CreateRegionRequest) (*models.Region, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	r, err := scanRegion(tx.QueryRow(ctx, `
		INSERT INTO regions (name, postgres_host, postgres_port, gateway_url, gateway_key_encrypted, is_dedicated)
		VALUES ($1, $2, $3, $4, '', $5)
		RETURNING `+regionColumns,
		req.Name, req.PostgresHost, req.PostgresPort, req.GatewayURL, req.IsDedicated,
	))
	if err != nil {
		return nil, mapDuplicate(err)
	}

	if req.GatewayKey != "" {
		enc, err := s.Crypto.Encrypt(regionScope(r.ID), []byte(req.GatewayKey))
		if err != nil {
			return nil, fmt.Errorf("encrypting gateway key: %w", err)
		}
		if _, err := tx.Exec(ctx,
			"UPDATE regions SET gateway_key_encrypted = $2 WHERE id = $1", r.ID, enc); err != nil {
			return nil, fmt.Errorf("storing gateway key: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing region: %w", err)
	}

	return r, nil
}

// UpdateRegion applies non-nil fields of req to the region.
func (s *RegionStore) UpdateRegion(ctx context.Context, id int64, req models.UpdateRegionRequest) (*models.Region, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var encKey *string
	if req.GatewayKey != nil {
		enc, err := s.Crypto.Encrypt(regionScope(id), []byte(*req.GatewayKey))
		if err != nil {
			return nil, fmt.Errorf("encrypting gateway key: %w", err)
		}
		encKey = &enc
	}

	r, err := scanRegion(s.Pool.QueryRow(ctx, `
		UPDATE regions SET
			name = COALESCE($2, name),
			gateway_url = COALESCE($3, gateway_url),
			gateway_key_encrypted = COALESCE($4, gateway_key_encrypted),
			is_active = COALESCE($5, is_active),
			is_dedicated = COALESCE($6, is_dedicated)
		WHERE id = $1
		RETURNING `+regionColumns,
		id, req.Name, req.GatewayURL, encKey, req.IsActive, req.IsDedicated,
	))
	if err != nil {
		return nil, mapDuplicate(err)
	}

	return r, nil
}

// DeleteRegion removes a region and its allow-list.
func (s *RegionStore) DeleteRegion(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM regions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting region: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRegionNotFound
	}

	return nil
}

// AssignTeams replaces a dedicated region's team allow-list.
func (s *RegionStore) AssignTeams(ctx context.Context, regionID int64, teamIDs []int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	if _, err := tx.Exec(ctx, "DELETE FROM region_teams WHERE region_id = $1", regionID); err != nil {
		return fmt.Errorf("clearing allow-list: %w", err)
	}

	for _, teamID := range teamIDs {
		if _, err := tx.Exec(ctx,
			"INSERT INTO region_teams (region_id, team_id) VALUES ($1, $2)", regionID, teamID); err != nil {
			return fmt.Errorf("inserting allow-list entry: %w", err)
		}
	}

	return tx.Commit(ctx)
}
