package service

import (
	"context"

	"github.com/keyfleet/keyfleet/internal/models"
)

// RegionStore is the data-access interface RegionService depends on.
type RegionStore interface {
	ListRegions(ctx context.Context, includeInactive bool) ([]models.Region, error)
	GetRegion(ctx context.Context, id int64) (*models.Region, error)
	CreateRegion(ctx context.Context, req models.CreateRegionRequest) (*models.Region, error)
	UpdateRegion(ctx context.Context, id int64, req models.UpdateRegionRequest) (*models.Region, error)
	DeleteRegion(ctx context.Context, id int64) error
	AssignTeams(ctx context.Context, regionID int64, teamIDs []int64) error
}

// RegionService wraps RegionStore with auditing and change notifications.
type RegionService struct {
	store  RegionStore
	teams  TeamGetter
	audit  AuditEnqueuer
	events ChangePublisher
}

// NewRegionService creates a RegionService.
func NewRegionService(store RegionStore, teams TeamGetter, audit AuditEnqueuer, events ChangePublisher) *RegionService {
	return &RegionService{store: store, teams: teams, audit: audit, events: events}
}

// ListRegions returns regions (pass-through).
func (s *RegionService) ListRegions(ctx context.Context, includeInactive bool) ([]models.Region, error) {
	return s.store.ListRegions(ctx, includeInactive)
}

// GetRegion returns a single region (pass-through).
func (s *RegionService) GetRegion(ctx context.Context, id int64) (*models.Region, error) {
	return s.store.GetRegion(ctx, id)
}

// CreateRegion registers a deployment region.
func (s *RegionService) CreateRegion(ctx context.Context, actor string, req models.CreateRegionRequest) (*models.Region, error) {
	region, err := s.store.CreateRegion(ctx, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "region.create", "region", formatID(region.ID), "create",
		map[string]any{"name": region.Name, "dedicated": region.IsDedicated})
	publishChange(s.events, "region", "create", formatID(region.ID))

	return region, nil
}

// UpdateRegion applies a partial update to a region.
func (s *RegionService) UpdateRegion(ctx context.Context, actor string, id int64, req models.UpdateRegionRequest) (*models.Region, error) {
	region, err := s.store.UpdateRegion(ctx, id, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "region.update", "region", formatID(id), "update", nil)
	publishChange(s.events, "region", "update", formatID(id))

	return region, nil
}

// DeleteRegion removes a region.
func (s *RegionService) DeleteRegion(ctx context.Context, actor string, id int64) error {
	if err := s.store.DeleteRegion(ctx, id); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "region.delete", "region", formatID(id), "delete", nil)
	publishChange(s.events, "region", "delete", formatID(id))

	return nil
}

// AssignTeams replaces a region's dedicated allow-list after verifying that
// the region and every team exist.
func (s *RegionService) AssignTeams(ctx context.Context, actor string, regionID int64, teamIDs []int64) error {
	if _, err := s.store.GetRegion(ctx, regionID); err != nil {
		return err
	}
	for _, teamID := range teamIDs {
		if _, err := s.teams.GetTeam(ctx, teamID); err != nil {
			return err
		}
	}

	if err := s.store.AssignTeams(ctx, regionID, teamIDs); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "region.assign_teams", "region", formatID(regionID), "update",
		map[string]any{"team_ids": teamIDs})
	publishChange(s.events, "region", "update", formatID(regionID))

	return nil
}
