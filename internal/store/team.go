package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keyfleet/keyfleet/internal/models"
)

// TeamStore provides data access for the teams table.
type TeamStore struct {
	Base
}

// NewTeamStore creates a TeamStore.
func NewTeamStore(base Base) *TeamStore {
	return &TeamStore{Base: base}
}

const teamColumns = "id, name, admin_email, is_active, is_always_free, created_at, last_payment, deleted_at"

func scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.AdminEmail, &t.IsActive, &t.IsAlwaysFree,
		&t.CreatedAt, &t.LastPayment, &t.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTeamNotFound
		}
		return nil, fmt.Errorf("scanning team: %w", err)
	}
	return &t, nil
}

// ListTeams returns all teams, optionally including soft-deleted ones, with
// their product subscriptions attached.
func (s *TeamStore) ListTeams(ctx context.Context, includeDeleted bool) ([]models.Team, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := "SELECT " + teamColumns + " FROM teams"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY id"

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams: %w", err)
	}

	if err := s.attachProducts(ctx, teams); err != nil {
		return nil, err
	}

	return teams, nil
}

// attachProducts loads product subscriptions for every team in one query.
func (s *TeamStore) attachProducts(ctx context.Context, teams []models.Team) error {
	if len(teams) == 0 {
		return nil
	}

	idx := make(map[int64]*models.Team, len(teams))
	ids := make([]int64, 0, len(teams))
	for i := range teams {
		idx[teams[i].ID] = &teams[i]
		ids = append(ids, teams[i].ID)
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT tp.team_id, `+productColumns("p")+`
		FROM team_products tp
		JOIN products p ON p.id = tp.product_id
		WHERE tp.team_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("querying team products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var teamID int64
		var p models.Product
		if err := rows.Scan(
			&teamID, &p.ID, &p.Name, &p.UserCount, &p.KeysPerUser,
			&p.KeyBudget, &p.RPMPerKey, &p.VectorDBGB, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scanning team product: %w", err)
		}
		if t, ok := idx[teamID]; ok {
			t.Products = append(t.Products, p)
		}
	}

	return rows.Err()
}

// GetTeam returns a single team by ID with products attached. Soft-deleted
// teams are returned too; callers decide whether deletion matters.
func (s *TeamStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	t, err := scanTeam(s.Pool.QueryRow(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE id = $1", id))
	if err != nil {
		return nil, err
	}

	teams := []models.Team{*t}
	if err := s.attachProducts(ctx, teams); err != nil {
		return nil, err
	}

	return &teams[0], nil
}

// CreateTeam inserts a new team.
func (s *TeamStore) CreateTeam(ctx context.Context, req models.CreateTeamRequest) (*models.Team, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	t, err := scanTeam(s.Pool.QueryRow(ctx, `
		INSERT INTO teams (name, admin_email, is_always_free)
		VALUES ($1, $2, $3)
		RETURNING `+teamColumns,
		req.Name, req.AdminEmail, req.IsAlwaysFree,
	))
	if err != nil {
		return nil, mapDuplicate(err)
	}

	return t, nil
}

// UpdateTeam applies non-nil fields of req to the team.
func (s *TeamStore) UpdateTeam(ctx context.Context, id int64, req models.UpdateTeamRequest) (*models.Team, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	t, err := scanTeam(s.Pool.QueryRow(ctx, `
		UPDATE teams SET
			name = COALESCE($2, name),
			admin_email = COALESCE($3, admin_email),
			is_active = COALESCE($4, is_active),
			is_always_free = COALESCE($5, is_always_free)
		WHERE id = $1
		RETURNING `+teamColumns,
		id, req.Name, req.AdminEmail, req.IsActive, req.IsAlwaysFree,
	))
	if err != nil {
		return nil, mapDuplicate(err)
	}

	return t, nil
}

// SoftDeleteTeam marks a team deleted without erasing it.
func (s *TeamStore) SoftDeleteTeam(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		"UPDATE teams SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return fmt.Errorf("soft-deleting team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTeamNotFound
	}

	return nil
}

// RestoreTeam clears the soft-delete marker.
func (s *TeamStore) RestoreTeam(ctx context.Context, id int64) (*models.Team, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	t, err := scanTeam(s.Pool.QueryRow(ctx, `
		UPDATE teams SET deleted_at = NULL WHERE id = $1
		RETURNING `+teamColumns, id))
	if err != nil {
		return nil, err
	}

	return t, nil
}

// RecordPayment stamps the team's last payment time, re-anchoring its trial window.
func (s *TeamStore) RecordPayment(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "UPDATE teams SET last_payment = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("recording payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTeamNotFound
	}

	return nil
}

// AttachProduct subscribes a team to a product.
func (s *TeamStore) AttachProduct(ctx context.Context, teamID int64, productID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO team_products (team_id, product_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		teamID, productID)
	if err != nil {
		return fmt.Errorf("attaching product: %w", err)
	}

	return nil
}

// DetachProduct removes a team's product subscription.
func (s *TeamStore) DetachProduct(ctx context.Context, teamID int64, productID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		"DELETE FROM team_products WHERE team_id = $1 AND product_id = $2",
		teamID, productID)
	if err != nil {
		return fmt.Errorf("detaching product: %w", err)
	}

	return nil
}

// MergeTeams reassigns every user and private AI key from the source team to
// the target, then soft-deletes the source. The whole move is one
// transaction: either everything transfers or nothing does.
func (s *TeamStore) MergeTeams(ctx context.Context, sourceID, targetID int64) (*models.MergeResult, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning merge transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	usersTag, err := tx.Exec(ctx,
		"UPDATE users SET team_id = $2 WHERE team_id = $1", sourceID, targetID)
	if err != nil {
		return nil, fmt.Errorf("reassigning users: %w", err)
	}

	keysTag, err := tx.Exec(ctx,
		"UPDATE private_ai_keys SET team_id = $2 WHERE team_id = $1", sourceID, targetID)
	if err != nil {
		return nil, fmt.Errorf("reassigning keys: %w", err)
	}

	delTag, err := tx.Exec(ctx,
		"UPDATE teams SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", sourceID)
	if err != nil {
		return nil, fmt.Errorf("deleting source team: %w", err)
	}
	if delTag.RowsAffected() == 0 {
		return nil, models.ErrTeamNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing merge: %w", err)
	}

	return &models.MergeResult{
		SourceTeamID: sourceID,
		TargetTeamID: targetID,
		MovedUsers:   int(usersTag.RowsAffected()),
		MovedKeys:    int(keysTag.RowsAffected()),
	}, nil
}
