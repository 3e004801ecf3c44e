package client

import "time"

// RuntimeConfig is the public runtime configuration from GET /api/config.
type RuntimeConfig struct {
	APIBaseURL           string `json:"api_base_url"`
	StripePublishableKey string `json:"stripe_publishable_key,omitempty"`
	PricingTableEnabled  bool   `json:"pricing_table_enabled"`
	EventsEnabled        bool   `json:"events_enabled"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Team is a billing and ownership unit for users and private AI keys.
type Team struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	AdminEmail   string     `json:"admin_email"`
	IsActive     bool       `json:"is_active"`
	IsAlwaysFree bool       `json:"is_always_free"`
	CreatedAt    time.Time  `json:"created_at"`
	LastPayment  *time.Time `json:"last_payment,omitempty"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	Products     []Product  `json:"products,omitempty"`
}

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	Name         string `json:"name"`
	AdminEmail   string `json:"admin_email"`
	IsAlwaysFree bool   `json:"is_always_free"`
}

// UpdateTeamRequest is the payload for updating a team. Nil fields are unchanged.
type UpdateTeamRequest struct {
	Name         *string `json:"name,omitempty"`
	AdminEmail   *string `json:"admin_email,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	IsAlwaysFree *bool   `json:"is_always_free,omitempty"`
}

// MergeResult reports what a team merge moved.
type MergeResult struct {
	SourceTeamID int64 `json:"source_team_id"`
	TargetTeamID int64 `json:"target_team_id"`
	MovedUsers   int   `json:"moved_users"`
	MovedKeys    int   `json:"moved_keys"`
}

// User is an operator account. Team affiliation is optional.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TeamID    *int64    `json:"team_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	TeamID *int64 `json:"team_id,omitempty"`
}

// UpdateUserRequest is the payload for updating a user. ClearTeam removes the
// team affiliation and wins over TeamID when both are set.
type UpdateUserRequest struct {
	Role      *string `json:"role,omitempty"`
	TeamID    *int64  `json:"team_id,omitempty"`
	ClearTeam bool    `json:"clear_team,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// DatabaseCredentials is the provisioned datastore credential bundle. The
// password is present only in the creation response.
type DatabaseCredentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// PrivateAIKey is a provisioned credential bundle scoped to one user or team.
type PrivateAIKey struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	OwnerID        *int64              `json:"owner_id,omitempty"`
	TeamID         *int64              `json:"team_id,omitempty"`
	RegionID       int64               `json:"region_id"`
	Credentials    DatabaseCredentials `json:"credentials"`
	GatewayToken   string              `json:"litellm_token,omitempty"`
	MaxBudget      *float64            `json:"max_budget,omitempty"`
	BudgetDuration string              `json:"budget_duration,omitempty"`
	BudgetResetAt  *time.Time          `json:"budget_reset_at,omitempty"`
	Spend          float64             `json:"spend"`
	CreatedAt      time.Time           `json:"created_at"`
}

// CreateKeyRequest is the payload for provisioning a private AI key. Exactly
// one of OwnerID and TeamID must be set.
type CreateKeyRequest struct {
	Name           string   `json:"name"`
	OwnerID        *int64   `json:"owner_id,omitempty"`
	TeamID         *int64   `json:"team_id,omitempty"`
	RegionID       int64    `json:"region_id"`
	MaxBudget      *float64 `json:"max_budget,omitempty"`
	BudgetDuration string   `json:"budget_duration,omitempty"`
}

// UpdateKeyRequest is the payload for updating a key's budget settings.
type UpdateKeyRequest struct {
	Name           *string  `json:"name,omitempty"`
	MaxBudget      *float64 `json:"max_budget,omitempty"`
	BudgetDuration *string  `json:"budget_duration,omitempty"`
}

// KeyListOptions narrows a key listing. Nil fields mean no filter.
type KeyListOptions struct {
	OwnerID  *int64
	TeamID   *int64
	RegionID *int64
}

// SpendReport is the per-key spend summary from GET /private-ai-keys/:id/spend.
type SpendReport struct {
	Spend          float64    `json:"spend"`
	MaxBudget      *float64   `json:"max_budget,omitempty"`
	BudgetDuration string     `json:"budget_duration,omitempty"`
	BudgetResetAt  *time.Time `json:"budget_reset_at,omitempty"`
}

// Region is a named deployment target with its own datastore and gateway.
type Region struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PostgresHost string    `json:"postgres_host"`
	PostgresPort int       `json:"postgres_port"`
	GatewayURL   string    `json:"litellm_api_url"`
	IsActive     bool      `json:"is_active"`
	IsDedicated  bool      `json:"is_dedicated"`
	CreatedAt    time.Time `json:"created_at"`
	TeamIDs      []int64   `json:"team_ids,omitempty"`
}

// CreateRegionRequest is the payload for creating a region.
type CreateRegionRequest struct {
	Name         string `json:"name"`
	PostgresHost string `json:"postgres_host"`
	PostgresPort int    `json:"postgres_port,omitempty"`
	GatewayURL   string `json:"litellm_api_url,omitempty"`
	GatewayKey   string `json:"litellm_api_key,omitempty"`
	IsDedicated  bool   `json:"is_dedicated"`
}

// UpdateRegionRequest is the payload for updating a region. Nil fields are unchanged.
type UpdateRegionRequest struct {
	Name        *string `json:"name,omitempty"`
	GatewayURL  *string `json:"litellm_api_url,omitempty"`
	GatewayKey  *string `json:"litellm_api_key,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsDedicated *bool   `json:"is_dedicated,omitempty"`
}

// Product is a purchasable plan with entitlement limits.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	UserCount   int       `json:"user_count"`
	KeysPerUser int       `json:"keys_per_user"`
	KeyBudget   float64   `json:"total_budget_per_key"`
	RPMPerKey   int       `json:"rpm_per_key"`
	VectorDBGB  int       `json:"vector_db_storage"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductRequest is the payload for registering a product. The ID is
// issued by the billing provider.
type CreateProductRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	UserCount   int     `json:"user_count"`
	KeysPerUser int     `json:"keys_per_user"`
	KeyBudget   float64 `json:"total_budget_per_key"`
	RPMPerKey   int     `json:"rpm_per_key"`
	VectorDBGB  int     `json:"vector_db_storage"`
}

// UpdateProductRequest is the payload for updating a product. Nil fields are unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	UserCount   *int     `json:"user_count,omitempty"`
	KeysPerUser *int     `json:"keys_per_user,omitempty"`
	KeyBudget   *float64 `json:"total_budget_per_key,omitempty"`
	RPMPerKey   *int     `json:"rpm_per_key,omitempty"`
	VectorDBGB  *int     `json:"vector_db_storage,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// LimitedResource tracks current usage against a ceiling for one owner.
type LimitedResource struct {
	ID        int64     `json:"id"`
	OwnerType string    `json:"owner_type"`
	OwnerID   int64     `json:"owner_id"`
	Resource  string    `json:"resource"`
	LimitType string    `json:"limit_type"`
	Current   float64   `json:"current_value"`
	Max       float64   `json:"max_value"`
	Unit      string    `json:"unit"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetLimitRequest manually overrides a limit's max value.
type SetLimitRequest struct {
	Max  float64 `json:"max_value"`
	Unit string  `json:"unit,omitempty"`
}

// AuditEntry is an immutable record of an administrative action.
type AuditEntry struct {
	ID           int64          `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	ActorEmail   string         `json:"user_email,omitempty"`
	EventType    string         `json:"event_type"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Action       string         `json:"action"`
	StatusCode   int            `json:"status_code,omitempty"`
	Detail       map[string]any `json:"details,omitempty"`
	Source       string         `json:"source,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
}

// AuditQueryOptions holds audit log filters. Zero values mean no filter.
type AuditQueryOptions struct {
	ActorEmail   string
	EventType    string
	ResourceType string
	Action       string
	Since        *time.Time
	Page         int
	PageSize     int
}

// AuditPage is the server-side pagination envelope for audit queries.
type AuditPage struct {
	Items []AuditEntry `json:"items"`
	Total int          `json:"total"`
}

// PricingTableSession carries what a console needs to embed the hosted
// pricing table.
type PricingTableSession struct {
	PublishableKey string `json:"publishable_key"`
	PricingTableID string `json:"pricing_table_id"`
	ClientSecret   string `json:"client_secret,omitempty"`
}
