package service

import (
	"context"

	"github.com/keyfleet/keyfleet/internal/models"
)

// ResourceStore is the data-access interface ResourceService depends on.
type ResourceStore interface {
	ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.LimitedResource, error)
	Get(ctx context.Context, id int64) (*models.LimitedResource, error)
	SetOverride(ctx context.Context, id int64, req models.SetLimitRequest) (*models.LimitedResource, error)
	ClearOverride(ctx context.Context, id int64) (*models.LimitedResource, error)
}

// ResourceService wraps ResourceStore with auditing.
type ResourceService struct {
	store  ResourceStore
	audit  AuditEnqueuer
	events ChangePublisher
}

// NewResourceService creates a ResourceService.
func NewResourceService(store ResourceStore, audit AuditEnqueuer, events ChangePublisher) *ResourceService {
	return &ResourceService{store: store, audit: audit, events: events}
}

// ListByOwner returns all limits for an owner (pass-through).
func (s *ResourceService) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.LimitedResource, error) {
	return s.store.ListByOwner(ctx, ownerType, ownerID)
}

// Get returns a single limit (pass-through).
func (s *ResourceService) Get(ctx context.Context, id int64) (*models.LimitedResource, error) {
	return s.store.Get(ctx, id)
}

// SetOverride manually adjusts a limit's ceiling.
func (s *ResourceService) SetOverride(ctx context.Context, actor string, id int64, req models.SetLimitRequest) (*models.LimitedResource, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	limit, err := s.store.SetOverride(ctx, id, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "limit.override", "limited_resource", formatID(id), "update",
		map[string]any{"max_value": req.Max, "unit": string(req.Unit)})
	publishChange(s.events, "limited_resource", "update", formatID(id))

	return limit, nil
}

// ClearOverride returns a limit to product-driven management.
func (s *ResourceService) ClearOverride(ctx context.Context, actor string, id int64) (*models.LimitedResource, error) {
	limit, err := s.store.ClearOverride(ctx, id)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "limit.clear_override", "limited_resource", formatID(id), "update", nil)
	publishChange(s.events, "limited_resource", "update", formatID(id))

	return limit, nil
}
