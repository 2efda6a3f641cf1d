package order

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/events"
	"storefront-backend/internal/mailer"
	"storefront-backend/internal/model"
	customersvc "storefront-backend/internal/service/customer"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type capturePublisher struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (p *capturePublisher) PublishOrderCreated(_ context.Context, o domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published() []domain.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Order(nil), p.orders...)
}

type fixture struct {
	svc       *Service
	customers *customersvc.Service
	mail      *captureMailer
	publisher *capturePublisher
	dispatch  *events.Dispatcher
}

func newFixture() *fixture {
	store := docstore.NewMemory()
	mail := &captureMailer{}
	publisher := &capturePublisher{}
	dispatch := events.NewDispatcher(nil, time.Second)
	customers := customersvc.New(model.Customers(store), nil)
	svc := New(model.Orders(store), customers, mail, dispatch, publisher, nil)
	return &fixture{svc: svc, customers: customers, mail: mail, publisher: publisher, dispatch: dispatch}
}

var orderNumberRe = regexp.MustCompile(`^SJ-\d{6}-\d{4}$`)

func TestCreateAssignsNumberAndDefaults(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), domain.Order{
		CustomerName:  "Asha Rao",
		CustomerEmail: "Asha@Example.com",
		TotalAmount:   2499,
		Items:         []domain.OrderItem{{ProductID: "p1", Name: "Ring", Quantity: 1, Price: 2499}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.dispatch.Wait()

	if !orderNumberRe.MatchString(created.OrderNumber) {
		t.Errorf("OrderNumber = %q", created.OrderNumber)
	}
	if created.Status != domain.OrderPending {
		t.Errorf("Status = %q, want pending", created.Status)
	}
	if created.PaymentStatus != domain.PaymentPending {
		t.Errorf("PaymentStatus = %q, want pending", created.PaymentStatus)
	}
	if created.CustomerEmail != "asha@example.com" {
		t.Errorf("CustomerEmail = %q, want lowercased", created.CustomerEmail)
	}
}

func TestCreateQueuesSideEffects(t *testing.T) {
	f := newFixture()

	created, err := f.svc.Create(context.Background(), domain.Order{
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		TotalAmount:   2499,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.dispatch.Wait()

	c, err := f.customers.Get(context.Background(), customerIDByEmail(t, f, "asha@example.com"))
	if err != nil {
		t.Fatalf("customer lookup: %v", err)
	}
	if c.TotalOrders != 1 || c.TotalSpent != 2499 {
		t.Errorf("customer = %+v, want one order for 2499", c)
	}

	msgs := f.mail.messages()
	if len(msgs) != 1 {
		t.Fatalf("sent %d mails, want 1", len(msgs))
	}
	if msgs[0].To != "asha@example.com" {
		t.Errorf("mail to %q", msgs[0].To)
	}
	if !strings.Contains(msgs[0].Subject, created.OrderNumber) {
		t.Errorf("subject %q does not carry the order number", msgs[0].Subject)
	}

	published := f.publisher.published()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	if published[0].OrderNumber != created.OrderNumber {
		t.Errorf("published order %q", published[0].OrderNumber)
	}
}

func TestCreateWithoutEmailSkipsCustomerAndMail(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), domain.Order{TotalAmount: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.dispatch.Wait()

	if msgs := f.mail.messages(); len(msgs) != 0 {
		t.Errorf("sent %d mails, want 0", len(msgs))
	}
	list, err := f.customers.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("customers = %+v, want none", list)
	}
	// The broker event still fires; it does not depend on the email.
	if published := f.publisher.published(); len(published) != 1 {
		t.Errorf("published %d events, want 1", len(published))
	}
}

func TestSecondOrderBumpsCustomerTotals(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, amount := range []float64{1000, 500} {
		if _, err := f.svc.Create(ctx, domain.Order{CustomerEmail: "asha@example.com", TotalAmount: amount}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		// Serialize the upserts; concurrent ones can lose an increment.
		f.dispatch.Wait()
	}

	c, err := f.customers.Get(ctx, customerIDByEmail(t, f, "asha@example.com"))
	if err != nil {
		t.Fatalf("customer lookup: %v", err)
	}
	if c.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", c.TotalOrders)
	}
	if c.TotalSpent != 1500 {
		t.Errorf("TotalSpent = %v, want 1500", c.TotalSpent)
	}
}

func TestCreateRejectsBadStatus(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Create(context.Background(), domain.Order{Status: "bogus"}); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUpdateValidatesStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.Order{TotalAmount: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.dispatch.Wait()

	if _, err := f.svc.Update(ctx, created.ID, map[string]interface{}{"status": "bogus"}); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if _, err := f.svc.Update(ctx, created.ID, map[string]interface{}{"paymentStatus": "bogus"}); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}

	updated, err := f.svc.Update(ctx, created.ID, map[string]interface{}{"paymentStatus": domain.PaymentPaid})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentPaid {
		t.Errorf("PaymentStatus = %q", updated.PaymentStatus)
	}
	if updated.OrderNumber != created.OrderNumber {
		t.Errorf("OrderNumber changed on update: %q -> %q", created.OrderNumber, updated.OrderNumber)
	}
}

func TestUpdateStatusShippedSendsMail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.Order{CustomerEmail: "asha@example.com", TotalAmount: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.dispatch.Wait()
	before := len(f.mail.messages())

	updated, err := f.svc.UpdateStatus(ctx, created.ID, domain.OrderShipped)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	f.dispatch.Wait()

	if updated.Status != domain.OrderShipped {
		t.Errorf("Status = %q", updated.Status)
	}
	msgs := f.mail.messages()
	if len(msgs) != before+1 {
		t.Fatalf("sent %d mails, want %d", len(msgs), before+1)
	}
	last := msgs[len(msgs)-1]
	if !strings.Contains(last.Subject, "Shipped") {
		t.Errorf("subject %q", last.Subject)
	}
}

func TestUpdateStatusProcessingSendsNoMail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.Order{CustomerEmail: "asha@example.com", TotalAmount: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.dispatch.Wait()
	before := len(f.mail.messages())

	if _, err := f.svc.UpdateStatus(ctx, created.ID, domain.OrderProcessing); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	f.dispatch.Wait()

	if msgs := f.mail.messages(); len(msgs) != before {
		t.Errorf("sent %d mails, want %d", len(msgs), before)
	}
}

func TestGetAndDeleteMissing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
	if err := f.svc.Delete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
}

func customerIDByEmail(t *testing.T, f *fixture, email string) string {
	t.Helper()
	list, err := f.customers.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, c := range list {
		if c.Email == email {
			return c.ID
		}
	}
	t.Fatalf("no customer with email %s", email)
	return ""
}
