package client

import (
	"context"
	"net/url"
)

// UserService handles operator account operations.
type UserService struct {
	c *Client
}

// List returns users, optionally narrowed to one team.
func (s *UserService) List(ctx context.Context, teamID *int64) ([]User, error) {
	params := url.Values{}
	if teamID != nil {
		params.Set("team_id", formatID(*teamID))
	}
	var users []User
	if err := s.c.get(ctx, "/api/users", params, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns a single user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := s.c.get(ctx, "/api/users/"+formatID(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	var user User
	if err := s.c.post(ctx, "/api/users", req, &user, "/api/users"); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user.
func (s *UserService) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	var user User
	if err := s.c.put(ctx, "/api/users/"+formatID(id), req, &user, "/api/users"); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete deactivates a user. Their keys survive; key listings depend on
// user state so they are invalidated too.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.c.del(ctx, "/api/users/"+formatID(id), "/api/users", "/api/private-ai-keys")
}
