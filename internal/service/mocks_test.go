package service

import (
	"context"
	"sync"
	"time"

	"github.com/keyfleet/keyfleet/internal/models"
	"github.com/keyfleet/keyfleet/internal/store"
)

// mockTeamStore records calls and returns configured responses.
type mockTeamStore struct {
	mu    sync.Mutex
	calls []string

	listTeams     func(ctx context.Context, includeDeleted bool) ([]models.Team, error)
	getTeam       func(ctx context.Context, id int64) (*models.Team, error)
	createTeam    func(ctx context.Context, req models.CreateTeamRequest) (*models.Team, error)
	updateTeam    func(ctx context.Context, id int64, req models.UpdateTeamRequest) (*models.Team, error)
	softDelete    func(ctx context.Context, id int64) error
	restoreTeam   func(ctx context.Context, id int64) (*models.Team, error)
	recordPayment func(ctx context.Context, id int64) error
	attachProduct func(ctx context.Context, teamID int64, productID string) error
	detachProduct func(ctx context.Context, teamID int64, productID string) error
	mergeTeams    func(ctx context.Context, sourceID, targetID int64) (*models.MergeResult, error)
}

func (m *mockTeamStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockTeamStore) ListTeams(ctx context.Context, includeDeleted bool) ([]models.Team, error) {
	m.record("ListTeams")
	return m.listTeams(ctx, includeDeleted)
}

func (m *mockTeamStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	m.record("GetTeam")
	return m.getTeam(ctx, id)
}

func (m *mockTeamStore) CreateTeam(ctx context.Context, req models.CreateTeamRequest) (*models.Team, error) {
	m.record("CreateTeam")
	return m.createTeam(ctx, req)
}

func (m *mockTeamStore) UpdateTeam(ctx context.Context, id int64, req models.UpdateTeamRequest) (*models.Team, error) {
	m.record("UpdateTeam")
	return m.updateTeam(ctx, id, req)
}

func (m *mockTeamStore) SoftDeleteTeam(ctx context.Context, id int64) error {
	m.record("SoftDeleteTeam")
	return m.softDelete(ctx, id)
}

func (m *mockTeamStore) RestoreTeam(ctx context.Context, id int64) (*models.Team, error) {
	m.record("RestoreTeam")
	return m.restoreTeam(ctx, id)
}

func (m *mockTeamStore) RecordPayment(ctx context.Context, id int64) error {
	m.record("RecordPayment")
	return m.recordPayment(ctx, id)
}

func (m *mockTeamStore) AttachProduct(ctx context.Context, teamID int64, productID string) error {
	m.record("AttachProduct")
	return m.attachProduct(ctx, teamID, productID)
}

func (m *mockTeamStore) DetachProduct(ctx context.Context, teamID int64, productID string) error {
	m.record("DetachProduct")
	return m.detachProduct(ctx, teamID, productID)
}

func (m *mockTeamStore) MergeTeams(ctx context.Context, sourceID, targetID int64) (*models.MergeResult, error) {
	m.record("MergeTeams")
	return m.mergeTeams(ctx, sourceID, targetID)
}

// mockKeyStore records calls and returns configured responses.
type mockKeyStore struct {
	mu    sync.Mutex
	calls []string

	listKeys     func(ctx context.Context, filter store.KeyFilter) ([]models.PrivateAIKey, error)
	getKey       func(ctx context.Context, id int64) (*models.PrivateAIKey, error)
	createKey    func(ctx context.Context, rec store.NewKeyRecord) (*models.PrivateAIKey, error)
	gatewayToken func(ctx context.Context, id int64) (string, error)
	updateKey    func(ctx context.Context, id int64, req models.UpdateKeyRequest, resetAt *time.Time) (*models.PrivateAIKey, error)
	deleteKey    func(ctx context.Context, id int64) error
	updateSpend  func(ctx context.Context, id int64, spend float64) error
	resetBudget  func(ctx context.Context, id int64, nextReset time.Time) error
}

func (m *mockKeyStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockKeyStore) ListKeys(ctx context.Context, filter store.KeyFilter) ([]models.PrivateAIKey, error) {
	m.record("ListKeys")
	return m.listKeys(ctx, filter)
}

func (m *mockKeyStore) GetKey(ctx context.Context, id int64) (*models.PrivateAIKey, error) {
	m.record("GetKey")
	return m.getKey(ctx, id)
}

func (m *mockKeyStore) CreateKey(ctx context.Context, rec store.NewKeyRecord) (*models.PrivateAIKey, error) {
	m.record("CreateKey")
	return m.createKey(ctx, rec)
}

func (m *mockKeyStore) GatewayToken(ctx context.Context, id int64) (string, error) {
	m.record("GatewayToken")
	return m.gatewayToken(ctx, id)
}

func (m *mockKeyStore) UpdateKey(ctx context.Context, id int64, req models.UpdateKeyRequest, resetAt *time.Time) (*models.PrivateAIKey, error) {
	m.record("UpdateKey")
	return m.updateKey(ctx, id, req, resetAt)
}

func (m *mockKeyStore) DeleteKey(ctx context.Context, id int64) error {
	m.record("DeleteKey")
	return m.deleteKey(ctx, id)
}

func (m *mockKeyStore) UpdateSpend(ctx context.Context, id int64, spend float64) error {
	m.record("UpdateSpend")
	return m.updateSpend(ctx, id, spend)
}

func (m *mockKeyStore) ResetBudget(ctx context.Context, id int64, nextReset time.Time) error {
	m.record("ResetBudget")
	return m.resetBudget(ctx, id, nextReset)
}

// mockRegionGetter returns a configured region.
type mockRegionGetter struct {
	getRegion func(ctx context.Context, id int64) (*models.Region, error)
}

func (m *mockRegionGetter) GetRegion(ctx context.Context, id int64) (*models.Region, error) {
	return m.getRegion(ctx, id)
}

// mockUserGetter returns a configured user.
type mockUserGetter struct {
	getUser func(ctx context.Context, id int64) (*models.User, error)
}

func (m *mockUserGetter) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return m.getUser(ctx, id)
}

// mockTeamGetter returns a configured team.
type mockTeamGetter struct {
	getTeam func(ctx context.Context, id int64) (*models.Team, error)
}

func (m *mockTeamGetter) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	return m.getTeam(ctx, id)
}

// mockAuditRecorder collects recorded entries.
type mockAuditRecorder struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	err     error
}

func (m *mockAuditRecorder) Record(_ context.Context, entry models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockAuditRecorder) getEntries() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockAuditEnqueuer collects enqueued entries synchronously.
type mockAuditEnqueuer struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (m *mockAuditEnqueuer) Enqueue(entry models.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *mockAuditEnqueuer) getEntries() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockPublisher collects change notifications.
type mockPublisher struct {
	mu     sync.Mutex
	events []string
}

func (m *mockPublisher) PublishChange(resource, action, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, resource+"."+action+":"+id)
}

func (m *mockPublisher) getEvents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}
