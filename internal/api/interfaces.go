package api

import (
	"context"

	"github.com/keyfleet/keyfleet/internal/models"
	"github.com/keyfleet/keyfleet/internal/service"
	"github.com/keyfleet/keyfleet/internal/store"
)

// TeamRepository defines team operations used by TeamHandler.
type TeamRepository interface {
	ListTeams(ctx context.Context, includeDeleted bool) ([]models.Team, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	CreateTeam(ctx context.Context, actor string, req models.CreateTeamRequest) (*models.Team, error)
	UpdateTeam(ctx context.Context, actor string, id int64, req models.UpdateTeamRequest) (*models.Team, error)
	DeleteTeam(ctx context.Context, actor string, id int64) error
	RestoreTeam(ctx context.Context, actor string, id int64) (*models.Team, error)
	RecordPayment(ctx context.Context, actor string, id int64) error
	AttachProduct(ctx context.Context, actor string, teamID int64, productID string) error
	DetachProduct(ctx context.Context, actor string, teamID int64, productID string) error
	MergeTeams(ctx context.Context, actor string, sourceID, targetID int64) (*models.MergeResult, error)
}

// UserRepository defines user operations used by UserHandler.
type UserRepository interface {
	ListUsers(ctx context.Context, teamID *int64) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, actor string, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, actor string, id int64, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor string, id int64) error
}

// KeyRepository defines private AI key operations used by KeyHandler.
type KeyRepository interface {
	ListKeys(ctx context.Context, filter store.KeyFilter) ([]models.PrivateAIKey, error)
	GetKey(ctx context.Context, id int64) (*models.PrivateAIKey, error)
	CreateKey(ctx context.Context, actor string, req models.CreateKeyRequest) (*models.PrivateAIKey, error)
	UpdateKey(ctx context.Context, actor string, id int64, req models.UpdateKeyRequest) (*models.PrivateAIKey, error)
	DeleteKey(ctx context.Context, actor string, id int64) error
	GatewayToken(ctx context.Context, id int64) (string, error)
	RecordSpend(ctx context.Context, id int64, spend float64) (*models.PrivateAIKey, error)
}

// RegionRepository defines region operations used by RegionHandler.
type RegionRepository interface {
	ListRegions(ctx context.Context, includeInactive bool) ([]models.Region, error)
	GetRegion(ctx context.Context, id int64) (*models.Region, error)
	CreateRegion(ctx context.Context, actor string, req models.CreateRegionRequest) (*models.Region, error)
	UpdateRegion(ctx context.Context, actor string, id int64, req models.UpdateRegionRequest) (*models.Region, error)
	DeleteRegion(ctx context.Context, actor string, id int64) error
	AssignTeams(ctx context.Context, actor string, regionID int64, teamIDs []int64) error
}

// ProductRepository defines product operations used by ProductHandler.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, actor string, req models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, actor string, id string, req models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, actor string, id string) error
}

// ResourceRepository defines limited-resource operations used by ResourceHandler.
type ResourceRepository interface {
	ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.LimitedResource, error)
	Get(ctx context.Context, id int64) (*models.LimitedResource, error)
	SetOverride(ctx context.Context, actor string, id int64, req models.SetLimitRequest) (*models.LimitedResource, error)
	ClearOverride(ctx context.Context, actor string, id int64) (*models.LimitedResource, error)
}

// AuditRepository defines audit log queries used by AuditHandler.
type AuditRepository interface {
	Query(ctx context.Context, opts models.AuditQueryOpts) (*models.AuditPage, error)
}

// BillingRepository defines billing operations used by BillingHandler.
type BillingRepository interface {
	Enabled() bool
	CreateSession(ctx context.Context, stripeCustomerID string) (*service.PricingTableSession, error)
}

// Pinger is the minimal database surface the health handler needs.
type Pinger interface {
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
