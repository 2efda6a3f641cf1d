// Package order implements order CRUD and the side effects hanging off a
// successful write: the customer aggregate, notification mail, and the
// optional broker event. The order write is the durability boundary;
// side-effect failures are logged and swallowed.
package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/events"
	"storefront-backend/internal/mailer"
	"storefront-backend/internal/model"
	customersvc "storefront-backend/internal/service/customer"
)

// Service handles /api/orders.
type Service struct {
	orders    *model.Adapter[domain.Order]
	customers *customersvc.Service
	mail      mailer.Mailer
	dispatch  *events.Dispatcher
	publisher events.Publisher
	logger    *log.Logger
}

// New creates a Service. publisher may be nil when no broker is configured.
func New(orders *model.Adapter[domain.Order], customers *customersvc.Service, mail mailer.Mailer, dispatch *events.Dispatcher, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:    orders,
		customers: customers,
		mail:      mail,
		dispatch:  dispatch,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.Find(ctx, model.All())
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.FindOne(ctx, model.ByID(id))
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// Create persists the order, then queues the customer upsert, the
// confirmation mail, and the broker event. Only the order write can fail
// the call.
func (s *Service) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	created, err := s.orders.Create(ctx, &o)
	if err != nil {
		return nil, err
	}

	saved := *created
	if saved.CustomerEmail != "" {
		s.dispatch.Go("customer-upsert", func(ctx context.Context) error {
			_, err := s.customers.UpsertFromOrder(ctx, customersvc.OrderInfo{
				Name:        saved.CustomerName,
				Email:       saved.CustomerEmail,
				Phone:       saved.CustomerPhone,
				TotalAmount: saved.TotalAmount,
			})
			return err
		})
		s.dispatch.Go("order-confirmation-mail", func(ctx context.Context) error {
			return s.mail.Send(ctx, confirmationMail(saved))
		})
	}
	if s.publisher != nil {
		s.dispatch.Go("order-created-event", func(ctx context.Context) error {
			return s.publisher.PublishOrderCreated(ctx, saved)
		})
	}

	return created, nil
}

// Update overwrites the named fields on an existing order.
func (s *Service) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Order, error) {
	if status, ok := fields["status"].(string); ok && !domain.ValidOrderStatus(status) {
		return nil, domain.NewValidationError("status", "must be one of pending/processing/shipped/delivered/cancelled")
	}
	if status, ok := fields["paymentStatus"].(string); ok && !domain.ValidPaymentStatus(status) {
		return nil, domain.NewValidationError("paymentStatus", "must be one of pending/paid/failed/refunded")
	}
	updated, err := s.orders.Update(ctx, model.ByID(id), model.SetFields(fields), model.UpdateOptions{})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return updated, nil
}

// UpdateStatus moves the order to a new status. Shipped orders with a
// customer email get a notification mail, queued fire-and-forget.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, domain.NewValidationError("status", "must be one of pending/processing/shipped/delivered/cancelled")
	}

	updated, err := s.orders.Update(ctx, model.ByID(id), model.SetFields(map[string]interface{}{"status": status}), model.UpdateOptions{})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	if status == domain.OrderShipped && updated.CustomerEmail != "" {
		shipped := *updated
		s.dispatch.Go("order-shipped-mail", func(ctx context.Context) error {
			return s.mail.Send(ctx, shippedMail(shipped))
		})
	}
	return updated, nil
}

// Delete removes an order by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	count, err := s.orders.Delete(ctx, model.ByID(id))
	if err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func confirmationMail(o domain.Order) mailer.Message {
	var items strings.Builder
	for _, item := range o.Items {
		fmt.Fprintf(&items, "<tr><td>%s</td><td>%d</td><td>₹%.2f</td></tr>", item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}
	name := o.CustomerName
	if name == "" {
		name = "Valued Customer"
	}
	method := "Online Payment"
	if o.PaymentMethod == domain.PaymentMethodCOD {
		method = "Cash on Delivery"
	}
	return mailer.Message{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("Order Confirmation #%s - SaajJewels", o.OrderNumber),
		HTML: fmt.Sprintf(`<div>
<h2>Order Confirmation</h2>
<p>Hello %s,</p>
<p>Thank you for your order!</p>
<p><strong>Order Number:</strong> %s<br>
<strong>Total Amount:</strong> ₹%.2f<br>
<strong>Payment Method:</strong> %s</p>
<table>%s</table>
<p>Shipping to: %s</p>
<p>The SaajJewels Team</p>
</div>`, name, o.OrderNumber, o.TotalAmount, method, items.String(), o.ShippingAddress),
	}
}

func shippedMail(o domain.Order) mailer.Message {
	name := o.CustomerName
	if name == "" {
		name = "Valued Customer"
	}
	return mailer.Message{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("Your SaajJewels Order #%s Has Been Shipped", o.OrderNumber),
		HTML: fmt.Sprintf(`<div>
<h2>Order Shipped</h2>
<p>Hello %s,</p>
<p>Your order #%s has been shipped and is on its way to you.</p>
<p><strong>Total Amount:</strong> ₹%.2f</p>
<p>The SaajJewels Team</p>
</div>`, name, o.OrderNumber, o.TotalAmount),
	}
}
