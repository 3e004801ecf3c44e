package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keyfleet/keyfleet/internal/models"
)

// UserStore provides data access for the users table.
type UserStore struct {
	Base
}

// NewUserStore creates a UserStore.
func NewUserStore(base Base) *UserStore {
	return &UserStore{Base: base}
}

const userColumns = "id, email, role, team_id, is_active, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &role, &u.TeamID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

// ListUsers returns all users, optionally restricted to one team.
func (s *UserStore) ListUsers(ctx context.Context, teamID *int64) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := "SELECT " + userColumns + " FROM users"
	var args []any
	if teamID != nil {
		query += " WHERE team_id = $1"
		args = append(args, *teamID)
	}
	query += " ORDER BY id"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

// GetUser returns a single user by ID.
func (s *UserStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return scanUser(s.Pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// CreateUser inserts a new user.
func (s *UserStore) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(s.Pool.QueryRow(ctx, `
		INSERT INTO users (email, role, team_id)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		req.Email, string(req.Role), req.TeamID,
	))
	if err != nil {
		return nil, mapDuplicate(err)
	}

	return u, nil
}

// UpdateUser applies non-nil fields of req to the user. ClearTeam removes
// the team affiliation and wins over TeamID.
func (s *UserStore) UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var role *string
	if req.Role != nil {
		r := string(*req.Role)
		role = &r
	}

	if req.ClearTeam {
		return scanUser(s.Pool.QueryRow(ctx, `
			UPDATE users SET
				role = COALESCE($2, role),
				team_id = NULL,
				is_active = COALESCE($3, is_active),
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			id, role, req.IsActive,
		))
	}

	return scanUser(s.Pool.QueryRow(ctx, `
		UPDATE users SET
			role = COALESCE($2, role),
			team_id = COALESCE($3, team_id),
			is_active = COALESCE($4, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, role, req.TeamID, req.IsActive,
	))
}

// DeleteUser removes a user.
func (s *UserStore) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}

	return nil
}
