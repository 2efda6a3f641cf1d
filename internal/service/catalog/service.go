// Package catalog serves the product catalog CRUD.
package catalog

import (
	"context"
	"io"
	"log"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/model"
)

// Service handles /api/products.
type Service struct {
	products *model.Adapter[domain.Product]
	logger   *log.Logger
}

// New creates a Service.
func New(products *model.Adapter[domain.Product], logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{products: products, logger: logger}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.Find(ctx, model.All())
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindOne(ctx, model.ByID(id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Create stores a new product.
func (s *Service) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return s.products.Create(ctx, &p)
}

// Update overwrites the named fields on an existing product.
func (s *Service) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Product, error) {
	updated, err := s.products.Update(ctx, model.ByID(id), model.SetFields(fields), model.UpdateOptions{})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return updated, nil
}

// Delete removes a product by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	count, err := s.products.Delete(ctx, model.ByID(id))
	if err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return nil
}
