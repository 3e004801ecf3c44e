package service

import (
	"context"

	"github.com/keyfleet/keyfleet/internal/models"
)

// ProductStore is the data-access interface ProductService depends on.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductService wraps ProductStore with auditing and change notifications.
type ProductService struct {
	store  ProductStore
	audit  AuditEnqueuer
	events ChangePublisher
}

// NewProductService creates a ProductService.
func NewProductService(store ProductStore, audit AuditEnqueuer, events ChangePublisher) *ProductService {
	return &ProductService{store: store, audit: audit, events: events}
}

// ListProducts returns all products (pass-through).
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// GetProduct returns a single product (pass-through).
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// CreateProduct registers a product.
func (s *ProductService) CreateProduct(ctx context.Context, actor string, req models.CreateProductRequest) (*models.Product, error) {
	product, err := s.store.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "product.create", "product", product.ID, "create",
		map[string]any{"name": product.Name})
	publishChange(s.events, "product", "create", product.ID)

	return product, nil
}

// UpdateProduct applies a partial update to a product.
func (s *ProductService) UpdateProduct(ctx context.Context, actor string, id string, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.store.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}

	auditAsync(s.audit, actor, "product.update", "product", id, "update", nil)
	publishChange(s.events, "product", "update", id)

	return product, nil
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, actor string, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	auditAsync(s.audit, actor, "product.delete", "product", id, "delete", nil)
	publishChange(s.events, "product", "delete", id)

	return nil
}
