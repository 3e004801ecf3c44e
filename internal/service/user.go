package service

import (
	"context"

	"github.com/keyfleet/keyfleet/internal/models"
)

// UserStore is the data-access interface UserService depends on.
type UserStore interface {
	ListUsers(ctx context.Context, teamID *int64) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserService wraps UserStore with auditing and change notifications.
type UserService struct {
	store  UserStore
	teams  TeamGetter
	audit  AuditEnqueuer
	events ChangePublisher
}

// NewUserService creates a UserService.
func NewUserService(store UserStore, teams TeamGetter, audit AuditEnqueuer, events ChangePublisher) *UserService {
	return &UserService{store: store, teams: teams, audit: audit, events: events}
}

// ListUsers returns users, optionally filtered by team (pass-through).
func (s *UserService) ListUsers(ctx context.Context, teamID *int64) ([]models.User, error) {
	return s.store.ListUsers(ctx, teamID)
}

// GetUser returns a single user (pass-through).
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// CreateUser creates a user, verifying the team assignment when present.
func (s *UserService) CreateUser(ctx context.Context, actor string, req models.CreateUserRequest) (*models.User, error) {
	if req.TeamID != nil {
		if _, err := s.teams.GetTeam(ctx, *req.TeamID); err != nil {
			return nil, err
		}
	}

	user, err := s.store.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "user.create", "user", formatID(user.ID), "create",
		map[string]any{"email": user.Email, "role": string(user.Role)})
	publishChange(s.events, "user", "create", formatID(user.ID))

	return user, nil
}

// UpdateUser applies a partial update, verifying any new team assignment.
func (s *UserService) UpdateUser(ctx context.Context, actor string, id int64, req models.UpdateUserRequest) (*models.User, error) {
	if req.TeamID != nil && !req.ClearTeam {
		if _, err := s.teams.GetTeam(ctx, *req.TeamID); err != nil {
			return nil, err
		}
	}

	user, err := s.store.UpdateUser(ctx, id, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "user.update", "user", formatID(id), "update", nil)
	publishChange(s.events, "user", "update", formatID(id))

	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, actor string, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "user.delete", "user", formatID(id), "delete", nil)
	publishChange(s.events, "user", "delete", formatID(id))

	return nil
}
