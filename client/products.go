package client

import (
	"context"
	"net/url"
)

// ProductService handles product operations.
type ProductService struct {
	c *Client
}

// productDependents: team listings join product subscriptions.
var productDependents = []string{"/api/products", "/api/teams"}

// List returns all products.
func (s *ProductService) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.c.get(ctx, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns a single product by its billing-provider ID.
func (s *ProductService) Get(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := s.c.get(ctx, "/api/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create registers a product.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	var product Product
	if err := s.c.post(ctx, "/api/products", req, &product, productDependents...); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update updates a product.
func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*Product, error) {
	var product Product
	if err := s.c.put(ctx, "/api/products/"+url.PathEscape(id), req, &product, productDependents...); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/products/"+url.PathEscape(id), productDependents...)
}
