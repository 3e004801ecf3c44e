package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keyfleet/keyfleet/internal/models"
)

// ProductStore provides data access for the products table.
type ProductStore struct {
	Base
}

// NewProductStore creates a ProductStore.
func NewProductStore(base Base) *ProductStore {
	return &ProductStore{Base: base}
}

// productColumns returns the product column list with an optional table prefix.
func productColumns(prefix string) string {
	if prefix != "" {
		prefix += "."
	}
	cols := []string{"id", "name", "user_count", "keys_per_user", "key_budget", "rpm_per_key", "vector_db_gb", "is_active", "created_at", "updated_at"}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += prefix + c
	}
	return out
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.UserCount, &p.KeysPerUser, &p.KeyBudget,
		&p.RPMPerKey, &p.VectorDBGB, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	return &p, nil
}

// ListProducts returns all products ordered by creation time.
func (s *ProductStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT "+productColumns("")+" FROM products ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

// GetProduct returns a single product by its externally issued ID.
func (s *ProductStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return scanProduct(s.Pool.QueryRow(ctx,
		"SELECT "+productColumns("")+" FROM products WHERE id = $1", id))
}

// CreateProduct registers a product under its externally issued ID.
func (s *ProductStore) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p, err := scanProduct(s.Pool.QueryRow(ctx, `
		INSERT INTO products (id, name, user_count, keys_per_user, key_budget, rpm_per_key, vector_db_gb)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns(""),
		req.ID, req.Name, req.UserCount, req.KeysPerUser, req.KeyBudget, req.RPMPerKey, req.VectorDBGB,
	))
	if err != nil {
		return nil, mapDuplicate(err)
	}

	return p, nil
}

// UpdateProduct applies non-nil fields of req to the product.
func (s *ProductStore) UpdateProduct(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return scanProduct(s.Pool.QueryRow(ctx, `
		UPDATE products SET
			name = COALESCE($2, name),
			user_count = COALESCE($3, user_count),
			keys_per_user = COALESCE($4, keys_per_user),
			key_budget = COALESCE($5, key_budget),
			rpm_per_key = COALESCE($6, rpm_per_key),
			vector_db_gb = COALESCE($7, vector_db_gb),
			is_active = COALESCE($8, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns(""),
		id, req.Name, req.UserCount, req.KeysPerUser, req.KeyBudget, req.RPMPerKey, req.VectorDBGB, req.IsActive,
	))
}

// DeleteProduct removes a product and its team subscriptions.
func (s *ProductStore) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrProductNotFound
	}

	return nil
}
