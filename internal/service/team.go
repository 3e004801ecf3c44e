package service

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

// TeamStore is the data-access interface TeamService depends on.
type TeamStore interface {
	ListTeams(ctx context.Context, includeDeleted bool) ([]models.Team, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	CreateTeam(ctx context.Context, req models.CreateTeamRequest) (*models.Team, error)
	UpdateTeam(ctx context.Context, id int64, req models.UpdateTeamRequest) (*models.Team, error)
	SoftDeleteTeam(ctx context.Context, id int64) error
	RestoreTeam(ctx context.Context, id int64) (*models.Team, error)
	RecordPayment(ctx context.Context, id int64) error
	AttachProduct(ctx context.Context, teamID int64, productID string) error
	DetachProduct(ctx context.Context, teamID int64, productID string) error
	MergeTeams(ctx context.Context, sourceID, targetID int64) (*models.MergeResult, error)
}

// TeamService wraps TeamStore with merge validation, auditing, and change
// notifications.
type TeamService struct {
	store  TeamStore
	audit  AuditEnqueuer
	events ChangePublisher
	log    *logrus.Logger
}

// NewTeamService creates a TeamService.
func NewTeamService(store TeamStore, audit AuditEnqueuer, events ChangePublisher, log *logrus.Logger) *TeamService {
	return &TeamService{store: store, audit: audit, events: events, log: log}
}

// ListTeams returns all teams (pass-through).
func (s *TeamService) ListTeams(ctx context.Context, includeDeleted bool) ([]models.Team, error) {
	return s.store.ListTeams(ctx, includeDeleted)
}

// GetTeam returns a single team (pass-through).
func (s *TeamService) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	return s.store.GetTeam(ctx, id)
}

// CreateTeam creates a team.
func (s *TeamService) CreateTeam(ctx context.Context, actor string, req models.CreateTeamRequest) (*models.Team, error) {
	team, err := s.store.CreateTeam(ctx, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "team.create", "team", formatID(team.ID), "create",
		map[string]any{"name": team.Name})
	publishChange(s.events, "team", "create", formatID(team.ID))

	return team, nil
}

// UpdateTeam applies a partial update to a team.
func (s *TeamService) UpdateTeam(ctx context.Context, actor string, id int64, req models.UpdateTeamRequest) (*models.Team, error) {
	team, err := s.store.UpdateTeam(ctx, id, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "team.update", "team", formatID(id), "update", nil)
	publishChange(s.events, "team", "update", formatID(id))

	return team, nil
}

// DeleteTeam soft-deletes a team. Deleted teams stay readable and restorable.
func (s *TeamService) DeleteTeam(ctx context.Context, actor string, id int64) error {
	if err := s.store.SoftDeleteTeam(ctx, id); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "team.delete", "team", formatID(id), "delete", nil)
	publishChange(s.events, "team", "delete", formatID(id))

	return nil
}

// RestoreTeam clears a team's soft-delete marker.
func (s *TeamService) RestoreTeam(ctx context.Context, actor string, id int64) (*models.Team, error) {
	team, err := s.store.RestoreTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "team.restore", "team", formatID(id), "update", nil)
	publishChange(s.events, "team", "update", formatID(id))

	return team, nil
}

// RecordPayment stamps the team's last payment, re-anchoring its trial window.
func (s *TeamService) RecordPayment(ctx context.Context, actor string, id int64) error {
	if err := s.store.RecordPayment(ctx, id); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "team.payment", "team", formatID(id), "update", nil)
	publishChange(s.events, "team", "update", formatID(id))

	return nil
}

// AttachProduct subscribes a team to a product.
func (s *TeamService) AttachProduct(ctx context.Context, actor string, teamID int64, productID string) error {
	if err := s.store.AttachProduct(ctx, teamID, productID); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "team.product.attach", "team", formatID(teamID), "update",
		map[string]any{"product_id": productID})
	publishChange(s.events, "team", "update", formatID(teamID))

	return nil
}

// DetachProduct removes a team's product subscription.
func (s *TeamService) DetachProduct(ctx context.Context, actor string, teamID int64, productID string) error {
	if err := s.store.DetachProduct(ctx, teamID, productID); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "team.product.detach", "team", formatID(teamID), "update",
		map[string]any{"product_id": productID})
	publishChange(s.events, "team", "update", formatID(teamID))

	return nil
}

// MergeTeams moves all users and keys from the source team into the target,
// then soft-deletes the source. Both teams must exist and the target must not
// be deleted.
func (s *TeamService) MergeTeams(ctx context.Context, actor string, sourceID, targetID int64) (*models.MergeResult, error) {
	if sourceID == targetID {
		return nil, models.ErrMergeSelf
	}

	source, err := s.store.GetTeam(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.store.GetTeam(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsDeleted() {
		return nil, models.ErrTeamDeleted
	}

	result, err := s.store.MergeTeams(ctx, sourceID, targetID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"source_team": source.Name,
		"target_team": target.Name,
		"moved_users": result.MovedUsers,
		"moved_keys":  result.MovedKeys,
	}).Info("teams merged")

	auditAsync(s.audit, actor, "team.merge", "team", formatID(targetID), "update", map[string]any{
		"source_team_id": sourceID,
		"moved_users":    result.MovedUsers,
		"moved_keys":     result.MovedKeys,
	})
	publishChange(s.events, "team", "update", formatID(targetID))
	publishChange(s.events, "team", "delete", formatID(sourceID))

	return result, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
