package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/keyfleet/keyfleet/internal/models"
)

// KeyStore provides data access for private AI keys. Database passwords and
// gateway tokens are sealed before insert and never leave the store in
// plaintext except through CreateKey's one-time return.
type KeyStore struct {
	Base
}

// NewKeyStore creates a KeyStore.
func NewKeyStore(base Base) *KeyStore {
	return &KeyStore{Base: base}
}

// KeyFilter narrows ListKeys. Nil fields match everything.
type KeyFilter struct {
	OwnerID  *int64
	TeamID   *int64
	RegionID *int64
}

const keyColumns = `id, name, owner_id, team_id, region_id,
	database_host, database_port, database_name, database_username,
	gateway_token_encrypted, max_budget, budget_duration, budget_reset_at,
	spend, created_at`

func scanKey(row pgx.Row) (*models.PrivateAIKey, error) {
	var (
		k models.PrivateAIKey
		// Token ciphertext is scanned but never exposed on reads.
		encToken *string
		duration *string
	)
	err := row.Scan(
		&k.ID, &k.Name, &k.OwnerID, &k.TeamID, &k.RegionID,
		&k.Credentials.Host, &k.Credentials.Port, &k.Credentials.Database, &k.Credentials.Username,
		&encToken, &k.MaxBudget, &duration, &k.BudgetResetAt,
		&k.Spend, &k.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrKeyNotFound
		}
		return nil, fmt.Errorf("scanning key: %w", err)
	}
	if duration != nil {
		k.BudgetDuration = *duration
	}
	return &k, nil
}

// keyScope is the crypto AAD scope for a key's secrets. The database username
// is unique per key and known before insert, which keeps sealing out of the
// insert transaction.
func keyScope(username string) string {
	return "key:" + username
}

// ListKeys returns keys matching the filter, newest first.
func (s *KeyStore) ListKeys(ctx context.Context, filter KeyFilter) ([]models.PrivateAIKey, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := "SELECT " + keyColumns + ` FROM private_ai_keys
		WHERE ($1::bigint IS NULL OR owner_id = $1)
		  AND ($2::bigint IS NULL OR team_id = $2)
		  AND ($3::bigint IS NULL OR region_id = $3)
		ORDER BY created_at DESC, id DESC`

	rows, err := s.Pool.Query(ctx, query, filter.OwnerID, filter.TeamID, filter.RegionID)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var keys []models.PrivateAIKey
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *k)
	}

	return keys, rows.Err()
}

// GetKey returns a single key by ID, without secret material.
func (s *KeyStore) GetKey(ctx context.Context, id int64) (*models.PrivateAIKey, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return scanKey(s.Pool.QueryRow(ctx,
		"SELECT "+keyColumns+" FROM private_ai_keys WHERE id = $1", id))
}

// NewKeyRecord is a fully provisioned key ready for insert. Password and
// GatewayToken are plaintext; the store seals them.
type NewKeyRecord struct {
	Name           string
	OwnerID        *int64
	TeamID         *int64
	RegionID       int64
	Credentials    models.DatabaseCredentials
	GatewayToken   string
	MaxBudget      *float64
	BudgetDuration string
	BudgetResetAt  *time.Time
}

// CreateKey inserts a provisioned key. The returned key carries the plaintext
// password and gateway token; this is the only read that ever does.
func (s *KeyStore) CreateKey(ctx context.Context, rec NewKeyRecord) (*models.PrivateAIKey, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	scope := keyScope(rec.Credentials.Username)

	encPassword, err := s.Crypto.Encrypt(scope, []byte(rec.Credentials.Password))
	if err != nil {
		return nil, fmt.Errorf("encrypting password: %w", err)
	}

	var encToken *string
	if rec.GatewayToken != "" {
		enc, err := s.Crypto.Encrypt(scope, []byte(rec.GatewayToken))
		if err != nil {
			return nil, fmt.Errorf("encrypting gateway token: %w", err)
		}
		encToken = &enc
	}

	var duration *string
	if rec.BudgetDuration != "" {
		duration = &rec.BudgetDuration
	}

	k, err := scanKey(s.Pool.QueryRow(ctx, `
		INSERT INTO private_ai_keys (
			name, owner_id, team_id, region_id,
			database_host, database_port, database_name, database_username,
			database_password_encrypted, gateway_token_encrypted,
			max_budget, budget_duration, budget_reset_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+keyColumns,
		rec.Name, rec.OwnerID, rec.TeamID, rec.RegionID,
		rec.Credentials.Host, rec.Credentials.Port, rec.Credentials.Database, rec.Credentials.Username,
		encPassword, encToken,
		rec.MaxBudget, duration, rec.BudgetResetAt,
	))
	if err != nil {
		return nil, mapDuplicate(err)
	}

	k.Credentials.Password = rec.Credentials.Password
	k.GatewayToken = rec.GatewayToken

	return k, nil
}

// GatewayToken decrypts and returns a key's gateway token, or "" when the
// key has none.
func (s *KeyStore) GatewayToken(ctx context.Context, id int64) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var (
		username string
		encToken *string
	)
	err := s.Pool.QueryRow(ctx,
		"SELECT database_username, gateway_token_encrypted FROM private_ai_keys WHERE id = $1", id).
		Scan(&username, &encToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrKeyNotFound
		}
		return "", fmt.Errorf("querying gateway token: %w", err)
	}
	if encToken == nil {
		return "", nil
	}

	plain, err := s.Crypto.Decrypt(keyScope(username), *encToken)
	if err != nil {
		return "", fmt.Errorf("decrypting gateway token: %w", err)
	}

	return string(plain), nil
}

// UpdateKey applies non-nil fields of req. Budget reset recomputation is the
// caller's concern; the store only persists BudgetResetAt when given.
func (s *KeyStore) UpdateKey(ctx context.Context, id int64, req models.UpdateKeyRequest, resetAt *time.Time) (*models.PrivateAIKey, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	k, err := scanKey(s.Pool.QueryRow(ctx, `
		UPDATE private_ai_keys SET
			name = COALESCE($2, name),
			max_budget = COALESCE($3, max_budget),
			budget_duration = COALESCE($4, budget_duration),
			budget_reset_at = COALESCE($5, budget_reset_at)
		WHERE id = $1
		RETURNING `+keyColumns,
		id, req.Name, req.MaxBudget, req.BudgetDuration, resetAt,
	))
	if err != nil {
		return nil, err
	}

	return k, nil
}

// DeleteKey removes a key.
func (s *KeyStore) DeleteKey(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM private_ai_keys WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrKeyNotFound
	}

	return nil
}

// UpdateSpend records reported spend for a key.
func (s *KeyStore) UpdateSpend(ctx context.Context, id int64, spend float64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		"UPDATE private_ai_keys SET spend = $2 WHERE id = $1", id, spend)
	if err != nil {
		return fmt.Errorf("updating spend: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrKeyNotFound
	}

	return nil
}

// ResetBudget zeroes a key's spend and advances its reset timestamp.
func (s *KeyStore) ResetBudget(ctx context.Context, id int64, nextReset time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		"UPDATE private_ai_keys SET spend = 0, budget_reset_at = $2 WHERE id = $1", id, nextReset)
	if err != nil {
		return fmt.Errorf("resetting budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrKeyNotFound
	}

	return nil
}
