package api_test

import (
	"context"

	"github.com/keyfleet/keyfleet/internal/models"
	"github.com/keyfleet/keyfleet/internal/store"
)

// mockTeamRepo implements api.TeamRepository for testing.
type mockTeamRepo struct {
	listFn          func(ctx context.Context, includeDeleted bool) ([]models.Team, error)
	getFn           func(ctx context.Context, id int64) (*models.Team, error)
	createFn        func(ctx context.Context, actor string, req models.CreateTeamRequest) (*models.Team, error)
	updateFn        func(ctx context.Context, actor string, id int64, req models.UpdateTeamRequest) (*models.Team, error)
	deleteFn        func(ctx context.Context, actor string, id int64) error
	restoreFn       func(ctx context.Context, actor string, id int64) (*models.Team, error)
	recordPaymentFn func(ctx context.Context, actor string, id int64) error
	attachFn        func(ctx context.Context, actor string, teamID int64, productID string) error
	detachFn        func(ctx context.Context, actor string, teamID int64, productID string) error
	mergeFn         func(ctx context.Context, actor string, sourceID, targetID int64) (*models.MergeResult, error)
}

func (m *mockTeamRepo) ListTeams(ctx context.Context, includeDeleted bool) ([]models.Team, error) {
	return m.listFn(ctx, includeDeleted)
}

func (m *mockTeamRepo) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	return m.getFn(ctx, id)
}

func (m *mockTeamRepo) CreateTeam(ctx context.Context, actor string, req models.CreateTeamRequest) (*models.Team, error) {
	return m.createFn(ctx, actor, req)
}

func (m *mockTeamRepo) UpdateTeam(ctx context.Context, actor string, id int64, req models.UpdateTeamRequest) (*models.Team, error) {
	return m.updateFn(ctx, actor, id, req)
}

func (m *mockTeamRepo) DeleteTeam(ctx context.Context, actor string, id int64) error {
	return m.deleteFn(ctx, actor, id)
}

func (m *mockTeamRepo) RestoreTeam(ctx context.Context, actor string, id int64) (*models.Team, error) {
	return m.restoreFn(ctx, actor, id)
}

func (m *mockTeamRepo) RecordPayment(ctx context.Context, actor string, id int64) error {
	return m.recordPaymentFn(ctx, actor, id)
}

func (m *mockTeamRepo) AttachProduct(ctx context.Context, actor string, teamID int64, productID string) error {
	return m.attachFn(ctx, actor, teamID, productID)
}

func (m *mockTeamRepo) DetachProduct(ctx context.Context, actor string, teamID int64, productID string) error {
	return m.detachFn(ctx, actor, teamID, productID)
}

func (m *mockTeamRepo) MergeTeams(ctx context.Context, actor string, sourceID, targetID int64) (*models.MergeResult, error) {
	return m.mergeFn(ctx, actor, sourceID, targetID)
}

// mockKeyRepo implements api.KeyRepository for testing.
type mockKeyRepo struct {
	listFn        func(ctx context.Context, filter store.KeyFilter) ([]models.PrivateAIKey, error)
	getFn         func(ctx context.Context, id int64) (*models.PrivateAIKey, error)
	createFn      func(ctx context.Context, actor string, req models.CreateKeyRequest) (*models.PrivateAIKey, error)
	updateFn      func(ctx context.Context, actor string, id int64, req models.UpdateKeyRequest) (*models.PrivateAIKey, error)
	deleteFn      func(ctx context.Context, actor string, id int64) error
	tokenFn       func(ctx context.Context, id int64) (string, error)
	recordSpendFn func(ctx context.Context, id int64, spend float64) (*models.PrivateAIKey, error)
}

func (m *mockKeyRepo) ListKeys(ctx context.Context, filter store.KeyFilter) ([]models.PrivateAIKey, error) {
	return m.listFn(ctx, filter)
}

func (m *mockKeyRepo) GetKey(ctx context.Context, id int64) (*models.PrivateAIKey, error) {
	return m.getFn(ctx, id)
}

func (m *mockKeyRepo) CreateKey(ctx context.Context, actor string, req models.CreateKeyRequest) (*models.PrivateAIKey, error) {
	return m.createFn(ctx, actor, req)
}

func (m *mockKeyRepo) UpdateKey(ctx context.Context, actor string, id int64, req models.UpdateKeyRequest) (*models.PrivateAIKey, error) {
	return m.updateFn(ctx, actor, id, req)
}

func (m *mockKeyRepo) DeleteKey(ctx context.Context, actor string, id int64) error {
	return m.deleteFn(ctx, actor, id)
}

func (m *mockKeyRepo) GatewayToken(ctx context.Context, id int64) (string, error) {
	return m.tokenFn(ctx, id)
}

func (m *mockKeyRepo) RecordSpend(ctx context.Context, id int64, spend float64) (*models.PrivateAIKey, error) {
	return m.recordSpendFn(ctx, id, spend)
}

// mockAuditRepo implements api.AuditRepository for testing.
type mockAuditRepo struct {
	queryFn func(ctx context.Context, opts models.AuditQueryOpts) (*models.AuditPage, error)
}

func (m *mockAuditRepo) Query(ctx context.Context, opts models.AuditQueryOpts) (*models.AuditPage, error) {
	return m.queryFn(ctx, opts)
}
