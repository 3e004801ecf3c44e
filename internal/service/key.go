package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/metrics"
	"github.com/keyfleet/keyfleet/internal/models"
	"github.com/keyfleet/keyfleet/internal/store"
)

// KeyStore is the data-access interface KeyService depends on.
type KeyStore interface {
	ListKeys(ctx context.Context, filter store.KeyFilter) ([]models.PrivateAIKey, error)
	GetKey(ctx context.Context, id int64) (*models.PrivateAIKey, error)
	CreateKey(ctx context.Context, rec store.NewKeyRecord) (*models.PrivateAIKey, error)
	GatewayToken(ctx context.Context, id int64) (string, error)
	UpdateKey(ctx context.Context, id int64, req models.UpdateKeyRequest, resetAt *time.Time) (*models.PrivateAIKey, error)
	DeleteKey(ctx context.Context, id int64) error
	UpdateSpend(ctx context.Context, id int64, spend float64) error
	ResetBudget(ctx context.Context, id int64, nextReset time.Time) error
}

// RegionGetter loads regions for provisioning checks.
type RegionGetter interface {
	GetRegion(ctx context.Context, id int64) (*models.Region, error)
}

// UserGetter loads users for ownership checks.
type UserGetter interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// TeamGetter loads teams for ownership checks.
type TeamGetter interface {
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
}

// KeyService provisions and manages private AI keys.
type KeyService struct {
	store   KeyStore
	regions RegionGetter
	users   UserGetter
	teams   TeamGetter
	audit   AuditEnqueuer
	events  ChangePublisher
	log     *logrus.Logger
}

// NewKeyService creates a KeyService.
func NewKeyService(
	store KeyStore, regions RegionGetter, users UserGetter, teams TeamGetter,
	audit AuditEnqueuer, events ChangePublisher, log *logrus.Logger,
) *KeyService {
	return &KeyService{
		store: store, regions: regions, users: users, teams: teams,
		audit: audit, events: events, log: log,
	}
}

// ListKeys returns keys matching the filter (pass-through).
func (s *KeyService) ListKeys(ctx context.Context, filter store.KeyFilter) ([]models.PrivateAIKey, error) {
	return s.store.ListKeys(ctx, filter)
}

// GetKey returns a single key (pass-through).
func (s *KeyService) GetKey(ctx context.Context, id int64) (*models.PrivateAIKey, error) {
	return s.store.GetKey(ctx, id)
}

// CreateKey provisions a key: it validates the owner and region, generates
// database credentials and a gateway token, and stores them sealed. The
// returned key is the only read that carries the plaintext password.
func (s *KeyService) CreateKey(ctx context.Context, actor string, req models.CreateKeyRequest) (*models.PrivateAIKey, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	region, err := s.regions.GetRegion(ctx, req.RegionID)
	if err != nil {
		return nil, err
	}
	if !region.IsActive {
		return nil, models.ErrRegionInactive
	}

	teamID, err := s.resolveOwnerTeam(ctx, req)
	if err != nil {
		return nil, err
	}
	if region.IsDedicated {
		if teamID == nil || !region.AllowsTeam(*teamID) {
			return nil, models.ErrRegionNotAllowed
		}
	}

	var resetAt *time.Time
	if req.BudgetDuration != "" {
		d, err := models.ParseBudgetDuration(req.BudgetDuration)
		if err != nil {
			return nil, err
		}
		t := time.Now().UTC().Add(d)
		resetAt = &t
	}

	creds, err := generateCredentials(region)
	if err != nil {
		return nil, err
	}
	token, err := generateGatewayToken()
	if err != nil {
		return nil, err
	}

	key, err := s.store.CreateKey(ctx, store.NewKeyRecord{
		Name:           req.Name,
		OwnerID:        req.OwnerID,
		TeamID:         req.TeamID,
		RegionID:       region.ID,
		Credentials:    creds,
		GatewayToken:   token,
		MaxBudget:      req.MaxBudget,
		BudgetDuration: req.BudgetDuration,
		BudgetResetAt:  resetAt,
	})
	if err != nil {
		return nil, err
	}

	metrics.KeysProvisioned.WithLabelValues(region.Name).Inc()
	s.log.WithFields(logrus.Fields{
		"key_id": key.ID,
		"region": region.Name,
		"owner":  string(key.OwnerKind()),
	}).Info("private AI key provisioned")

	auditAsync(s.audit, actor, "key.create", "private_ai_key", formatID(key.ID), "create",
		map[string]any{"region_id": region.ID, "name": key.Name})
	publishChange(s.events, "private_ai_key", "create", formatID(key.ID))

	return key, nil
}

// resolveOwnerTeam maps the requested owner to a team for dedicated-region
// checks. User-owned keys inherit the user's team; a user with no team has
// no claim on any dedicated region.
func (s *KeyService) resolveOwnerTeam(ctx context.Context, req models.CreateKeyRequest) (*int64, error) {
	if req.TeamID != nil {
		if _, err := s.teams.GetTeam(ctx, *req.TeamID); err != nil {
			return nil, err
		}
		return req.TeamID, nil
	}

	user, err := s.users.GetUser(ctx, *req.OwnerID)
	if err != nil {
		return nil, err
	}
	return user.TeamID, nil
}

// UpdateKey applies budget changes. A changed duration restarts the reset
// window from now.
func (s *KeyService) UpdateKey(ctx context.Context, actor string, id int64, req models.UpdateKeyRequest) (*models.PrivateAIKey, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resetAt *time.Time
	if req.BudgetDuration != nil && *req.BudgetDuration != "" {
		d, err := models.ParseBudgetDuration(*req.BudgetDuration)
		if err != nil {
			return nil, err
		}
		t := time.Now().UTC().Add(d)
		resetAt = &t
	}

	key, err := s.store.UpdateKey(ctx, id, req, resetAt)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "key.update", "private_ai_key", formatID(id), "update", nil)
	publishChange(s.events, "private_ai_key", "update", formatID(id))

	return key, nil
}

// DeleteKey revokes a key.
func (s *KeyService) DeleteKey(ctx context.Context, actor string, id int64) error {
	if err := s.store.DeleteKey(ctx, id); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "key.delete", "private_ai_key", formatID(id), "delete", nil)
	publishChange(s.events, "private_ai_key", "delete", formatID(id))

	return nil
}

// GatewayToken returns a key's decrypted gateway token (pass-through).
func (s *KeyService) GatewayToken(ctx context.Context, id int64) (string, error) {
	return s.store.GatewayToken(ctx, id)
}

// RecordSpend stores reported spend and resets the budget window when it has
// elapsed.
func (s *KeyService) RecordSpend(ctx context.Context, id int64, spend float64) (*models.PrivateAIKey, error) {
	if err := s.store.UpdateSpend(ctx, id, spend); err != nil {
		return nil, err
	}

	key, err := s.store.GetKey(ctx, id)
	if err != nil {
		return nil, err
	}

	if key.BudgetResetAt != nil && !key.BudgetResetAt.After(time.Now().UTC()) && key.BudgetDuration != "" {
		d, err := models.ParseBudgetDuration(key.BudgetDuration)
		if err == nil {
			next := time.Now().UTC().Add(d)
			if err := s.store.ResetBudget(ctx, id, next); err != nil {
				return nil, err
			}
			key.Spend = 0
			key.BudgetResetAt = &next
		}
	}

	publishChange(s.events, "private_ai_key", "update", formatID(id))

	return key, nil
}

// generateCredentials builds a fresh datastore credential bundle for the
// region. The username is unique and doubles as the crypto scope anchor.
func generateCredentials(region *models.Region) (models.DatabaseCredentials, error) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	password, err := randomSecret(24)
	if err != nil {
		return models.DatabaseCredentials{}, err
	}

	return models.DatabaseCredentials{
		Host:     region.PostgresHost,
		Port:     region.PostgresPort,
		Database: "ai_" + suffix,
		Username: "user_" + suffix,
		Password: password,
	}, nil
}

// generateGatewayToken builds an LLM-gateway API token.
func generateGatewayToken() (string, error) {
	secret, err := randomSecret(24)
	if err != nil {
		return "", err
	}
	return "sk-" + secret, nil
}

func randomSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
