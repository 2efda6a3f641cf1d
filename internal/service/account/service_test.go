package account

import (
	"context"
	"errors"
	"testing"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/model"
)

func testPassword() (string, error) { return "placeholder-hash", nil }

func newService() (*Service, *model.Adapter[domain.User]) {
	users := model.Users(docstore.NewMemory())
	return New(users, testPassword, nil), users
}

func TestCartProvisionsUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, users := newService()

	cart, err := svc.Cart(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("cart = %v, want empty", cart)
	}

	u, err := users.FindOne(ctx, model.ByField("email", "new@example.com"))
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if u == nil {
		t.Fatal("user not provisioned on first touch")
	}
	if u.Password == "" {
		t.Error("provisioned user missing placeholder password")
	}
}

func TestReplaceAndClearCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	lines := []domain.CartLine{
		{ProductID: "p1", Name: "Ring", Price: 999, Quantity: 1},
		{ProductID: "p2", Name: "Chain", Price: 1499, Quantity: 2},
	}
	if err := svc.ReplaceCart(ctx, "asha@example.com", lines); err != nil {
		t.Fatalf("ReplaceCart: %v", err)
	}

	cart, err := svc.Cart(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if len(cart) != 2 {
		t.Fatalf("len(cart) = %d, want 2", len(cart))
	}
	if cart[1].Quantity != 2 || cart[1].Price != 1499 {
		t.Errorf("cart[1] = %+v", cart[1])
	}

	if err := svc.ClearCart(ctx, "asha@example.com"); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}
	cart, err = svc.Cart(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("Cart after clear: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("cart = %v, want empty after clear", cart)
	}
}

func TestAddressLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	email := "asha@example.com"

	added, err := svc.AddAddress(ctx, email, domain.Address{Name: "Home", City: "Jaipur", Country: "IN"})
	if err != nil {
		t.Fatalf("AddAddress: %v", err)
	}
	if added.ID == "" {
		t.Fatal("AddAddress did not assign an id")
	}

	second, err := svc.AddAddress(ctx, email, domain.Address{Name: "Office", City: "Mumbai", Country: "IN"})
	if err != nil {
		t.Fatalf("second AddAddress: %v", err)
	}

	if err := svc.UpdateAddress(ctx, email, added.ID, domain.Address{Name: "Home", City: "Udaipur", Country: "IN"}); err != nil {
		t.Fatalf("UpdateAddress: %v", err)
	}

	addrs, err := svc.Addresses(ctx, email)
	if err != nil {
		t.Fatalf("Addresses: %v", err)
	}
	if len(addrs) != 2 {
		t.Fatalf("len(addrs) = %d, want 2", len(addrs))
	}
	if addrs[0].ID != added.ID || addrs[0].City != "Udaipur" {
		t.Errorf("addrs[0] = %+v, want patched in place", addrs[0])
	}
	if addrs[1].City != "Mumbai" {
		t.Errorf("addrs[1] = %+v, want untouched", addrs[1])
	}

	if err := svc.DeleteAddress(ctx, email, added.ID); err != nil {
		t.Fatalf("DeleteAddress: %v", err)
	}
	addrs, err = svc.Addresses(ctx, email)
	if err != nil {
		t.Fatalf("Addresses after delete: %v", err)
	}
	if len(addrs) != 1 || addrs[0].ID != second.ID {
		t.Errorf("addrs = %+v, want only the second address", addrs)
	}
}

func TestUpdateAddressMissingIDIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	email := "asha@example.com"

	if _, err := svc.AddAddress(ctx, email, domain.Address{Name: "Home", City: "Jaipur"}); err != nil {
		t.Fatalf("AddAddress: %v", err)
	}
	if err := svc.UpdateAddress(ctx, email, "missing", domain.Address{City: "Nowhere"}); err != nil {
		t.Fatalf("UpdateAddress with unknown id: %v", err)
	}

	addrs, err := svc.Addresses(ctx, email)
	if err != nil {
		t.Fatalf("Addresses: %v", err)
	}
	if len(addrs) != 1 || addrs[0].City != "Jaipur" {
		t.Errorf("addrs = %+v, want untouched", addrs)
	}
}

func TestAddOrderAppendsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	email := "asha@example.com"

	if err := svc.ReplaceCart(ctx, email, []domain.CartLine{{ProductID: "p1", Name: "Ring", Price: 999, Quantity: 1}}); err != nil {
		t.Fatalf("ReplaceCart: %v", err)
	}

	summary, err := svc.AddOrder(ctx, email, domain.OrderSummary{
		OrderNumber: "SJ-123456-7890",
		TotalAmount: 999,
		Status:      domain.OrderPending,
	})
	if err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	if summary.ID == "" {
		t.Error("AddOrder did not assign an id")
	}
	if summary.PlacedAt.IsZero() {
		t.Error("AddOrder did not stamp PlacedAt")
	}

	orders, err := svc.Orders(ctx, email)
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderNumber != "SJ-123456-7890" {
		t.Fatalf("orders = %+v", orders)
	}

	cart, err := svc.Cart(ctx, email)
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("cart = %v, want cleared after placing the order", cart)
	}

	got, err := svc.Order(ctx, email, summary.ID)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if got.OrderNumber != summary.OrderNumber {
		t.Errorf("Order = %+v", got)
	}
}

func TestOrderMissing(t *testing.T) {
	svc, _ := newService()
	if _, err := svc.Order(context.Background(), "asha@example.com", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
