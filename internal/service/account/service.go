// Package account serves the per-user sub-resources addressed by email:
// cart, saved addresses, and order history. Unknown users are provisioned
// on first touch, mirroring the storefront's historical behavior.
package account

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/model"
)

// PasswordFunc supplies the placeholder password hash for provisioned
// users.
type PasswordFunc func() (string, error)

// Service handles /api/users/*.
type Service struct {
	users    *model.Adapter[domain.User]
	password PasswordFunc
	logger   *log.Logger
	now      func() time.Time
}

// New creates a Service.
func New(users *model.Adapter[domain.User], password PasswordFunc, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{users: users, password: password, logger: logger, now: time.Now}
}

// ensure finds the user by email, creating a bare record when absent.
func (s *Service) ensure(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindOne(ctx, model.ByField("email", email))
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	password, err := s.password()
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, &domain.User{Email: email, Password: password})
}

// Cart returns the user's cart, provisioning the user when absent.
func (s *Service) Cart(ctx context.Context, email string) ([]domain.CartLine, error) {
	user, err := s.ensure(ctx, email)
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// ReplaceCart overwrites the whole cart.
func (s *Service) ReplaceCart(ctx context.Context, email string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	if _, err := s.ensure(ctx, email); err != nil {
		return err
	}
	_, err := s.users.Update(ctx, model.ByField("email", email),
		model.SetFields(map[string]interface{}{"cart": lines}),
		model.UpdateOptions{SkipReturn: true})
	return err
}

// ClearCart empties the cart.
func (s *Service) ClearCart(ctx context.Context, email string) error {
	return s.ReplaceCart(ctx, email, nil)
}

// Addresses returns the user's saved addresses.
func (s *Service) Addresses(ctx context.Context, email string) ([]domain.Address, error) {
	user, err := s.ensure(ctx, email)
	if err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

// AddAddress assigns a generated id and appends the address.
func (s *Service) AddAddress(ctx context.Context, email string, addr domain.Address) (domain.Address, error) {
	addr.ID = uuid.NewString()
	if _, err := s.ensure(ctx, email); err != nil {
		return domain.Address{}, err
	}
	_, err := s.users.Update(ctx, model.ByField("email", email),
		model.Push("addresses", addr),
		model.UpdateOptions{SkipReturn: true})
	if err != nil {
		return domain.Address{}, err
	}
	return addr, nil
}

// UpdateAddress merges the patch into the address with the given id. A
// missing id leaves the list untouched without error, as the original
// endpoint did.
func (s *Service) UpdateAddress(ctx context.Context, email, id string, patch domain.Address) error {
	user, err := s.ensure(ctx, email)
	if err != nil {
		return err
	}

	updated := make([]domain.Address, len(user.Addresses))
	for i, a := range user.Addresses {
		if a.ID == id {
			patch.ID = id
			updated[i] = patch
		} else {
			updated[i] = a
		}
	}

	_, err = s.users.Update(ctx, model.ByField("email", email),
		model.SetFields(map[string]interface{}{"addresses": updated}),
		model.UpdateOptions{SkipReturn: true})
	return err
}

// DeleteAddress removes the address with the given id.
func (s *Service) DeleteAddress(ctx context.Context, email, id string) error {
	user, err := s.ensure(ctx, email)
	if err != nil {
		return err
	}

	remaining := make([]domain.Address, 0, len(user.Addresses))
	for _, a := range user.Addresses {
		if a.ID != id {
			remaining = append(remaining, a)
		}
	}

	_, err = s.users.Update(ctx, model.ByField("email", email),
		model.SetFields(map[string]interface{}{"addresses": remaining}),
		model.UpdateOptions{SkipReturn: true})
	return err
}

// Orders returns the user's order history.
func (s *Service) Orders(ctx context.Context, email string) ([]domain.OrderSummary, error) {
	user, err := s.ensure(ctx, email)
	if err != nil {
		return nil, err
	}
	return user.Orders, nil
}

// Order returns one history entry by id.
func (s *Service) Order(ctx context.Context, email, id string) (*domain.OrderSummary, error) {
	orders, err := s.Orders(ctx, email)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

// AddOrder appends an order summary to the history and clears the cart,
// since placing an order consumes it.
func (s *Service) AddOrder(ctx context.Context, email string, summary domain.OrderSummary) (domain.OrderSummary, error) {
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	if summary.PlacedAt.IsZero() {
		summary.PlacedAt = s.now().UTC()
	}
	if _, err := s.ensure(ctx, email); err != nil {
		return domain.OrderSummary{}, err
	}

	_, err := s.users.Update(ctx, model.ByField("email", email),
		model.Push("orders", summary),
		model.UpdateOptions{SkipReturn: true})
	if err != nil {
		return domain.OrderSummary{}, err
	}
	_, err = s.users.Update(ctx, model.ByField("email", email),
		model.SetFields(map[string]interface{}{"cart": []domain.CartLine{}}),
		model.UpdateOptions{SkipReturn: true})
	if err != nil {
		return domain.OrderSummary{}, err
	}
	return summary, nil
}
