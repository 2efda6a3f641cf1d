// Package customer manages the CRM aggregate kept alongside orders.
package customer

import (
	"context"
	"io"
	"log"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/model"
)

// Service handles the admin customer CRUD plus the order-driven upsert.
type Service struct {
	customers *model.Adapter[domain.Customer]
	logger    *log.Logger
	now       func() time.Time
}

// New creates a Service.
func New(customers *model.Adapter[domain.Customer], logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{customers: customers, logger: logger, now: time.Now}
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.Find(ctx, model.All())
}

// Get returns one customer by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.customers.FindOne(ctx, model.ByID(id))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// Create stores a new customer record.
func (s *Service) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	return s.customers.Create(ctx, &c)
}

// Update overwrites the named fields on an existing customer.
func (s *Service) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Customer, error) {
	updated, err := s.customers.Update(ctx, model.ByID(id), model.SetFields(fields), model.UpdateOptions{})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return updated, nil
}

// Delete removes a customer by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	count, err := s.customers.Delete(ctx, model.ByID(id))
	if err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// OrderInfo is the slice of an order the aggregate cares about.
type OrderInfo struct {
	Name        string
	Email       string
	Phone       string
	TotalAmount float64
}

// UpsertFromOrder finds the customer by email or creates one, then bumps
// the counters. The sequence is read-then-write with no isolation:
// concurrent orders for the same customer can lose an increment. Callers
// treat any failure here as non-fatal to the order.
func (s *Service) UpsertFromOrder(ctx context.Context, info OrderInfo) (*domain.Customer, error) {
	if info.Email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}

	existing, err := s.customers.FindOne(ctx, model.ByField("email", info.Email))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if existing == nil {
		created, err := s.customers.Create(ctx, &domain.Customer{
			Name:          info.Name,
			Email:         info.Email,
			Phone:         info.Phone,
			TotalOrders:   1,
			TotalSpent:    info.TotalAmount,
			LastOrderDate: &now,
			Status:        domain.CustomerActive,
		})
		if err != nil {
			return nil, err
		}
		s.logger.Printf("customer: created %s from order", created.Email)
		return created, nil
	}

	existing.TotalOrders++
	existing.TotalSpent += info.TotalAmount
	existing.LastOrderDate = &now
	if info.Phone != "" {
		existing.Phone = info.Phone
	}
	if info.Name != "" {
		existing.Name = info.Name
	}

	saved, err := s.customers.Save(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("customer: updated %s orders=%d spent=%.2f", saved.Email, saved.TotalOrders, saved.TotalSpent)
	return saved, nil
}
