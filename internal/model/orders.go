package model

import (
	"strings"
	"time"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
)

// Orders builds the adapter for the orders collection. orderNumber and
// customerEmail are the queryable fields; orderNumber is unique and
// generated when absent.
func Orders(store docstore.Store) *Adapter[domain.Order] {
	return &Adapter[domain.Order]{
		store:      store,
		collection: "orders",
		queryable:  map[string]bool{"orderNumber": true, "customerEmail": true},
		uniqueBy:   "orderNumber",
		encode:     encodeOrder,
		decode:     decodeOrder,
		entityID:   func(o *domain.Order) string { return o.ID },
		setID:      func(o *domain.Order, id string) { o.ID = id },
		prepare:    prepareOrder,
		now:        time.Now,
	}
}

func prepareOrder(o *domain.Order, now time.Time) error {
	o.OrderNumber = EnsureOrderNumber(o.OrderNumber)
	o.CustomerEmail = strings.ToLower(strings.TrimSpace(o.CustomerEmail))

	if o.Status == "" {
		o.Status = domain.OrderPending
	}
	if !domain.ValidOrderStatus(o.Status) {
		return domain.NewValidationError("status", "must be one of pending/processing/shipped/delivered/cancelled")
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = domain.PaymentPending
	}
	if !domain.ValidPaymentStatus(o.PaymentStatus) {
		return domain.NewValidationError("paymentStatus", "must be one of pending/paid/failed/refunded")
	}
	if o.PaymentMethod != "" && !domain.ValidPaymentMethod(o.PaymentMethod) {
		return domain.NewValidationError("paymentMethod", "must be one of cod/razorpay/paypal")
	}
	if o.TotalAmount < 0 {
		return domain.NewValidationError("totalAmount", "must not be negative")
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return domain.NewValidationError("items.quantity", "must be at least 1")
		}
		if item.Price < 0 {
			return domain.NewValidationError("items.price", "must not be negative")
		}
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = now.UTC()
	}
	o.UpdatedAt = now.UTC()
	return nil
}

func encodeOrder(o *domain.Order) map[string]interface{} {
	return map[string]interface{}{
		"orderNumber":       o.OrderNumber,
		"customer":          o.Customer,
		"customerName":      o.CustomerName,
		"customerEmail":     o.CustomerEmail,
		"customerPhone":     o.CustomerPhone,
		"shippingAddress":   o.ShippingAddress,
		"items":             normalize(o.Items),
		"totalAmount":       o.TotalAmount,
		"status":            o.Status,
		"paymentStatus":     o.PaymentStatus,
		"paymentMethod":     o.PaymentMethod,
		"razorpayOrderId":   o.RazorpayOrderID,
		"razorpayPaymentId": o.RazorpayPaymentID,
		"createdAt":         o.CreatedAt,
		"updatedAt":         o.UpdatedAt,
	}
}

func decodeOrder(doc docstore.Document) *domain.Order {
	d := doc.Data
	return &domain.Order{
		ID:                doc.ID,
		OrderNumber:       asString(d["orderNumber"]),
		Customer:          asString(d["customer"]),
		CustomerName:      asString(d["customerName"]),
		CustomerEmail:     asString(d["customerEmail"]),
		CustomerPhone:     asString(d["customerPhone"]),
		ShippingAddress:   asString(d["shippingAddress"]),
		Items:             decodeOrderItems(d["items"]),
		TotalAmount:       asFloat(d["totalAmount"]),
		Status:            asString(d["status"]),
		PaymentStatus:     asString(d["paymentStatus"]),
		PaymentMethod:     asString(d["paymentMethod"]),
		RazorpayOrderID:   asString(d["razorpayOrderId"]),
		RazorpayPaymentID: asString(d["razorpayPaymentId"]),
		CreatedAt:         asTime(d["createdAt"]),
		UpdatedAt:         asTime(d["updatedAt"]),
	}
}

func decodeOrderItems(v interface{}) []domain.OrderItem {
	maps := asMaps(v)
	items := make([]domain.OrderItem, 0, len(maps))
	for _, m := range maps {
		items = append(items, domain.OrderItem{
			ProductID: asString(m["productId"]),
			Name:      asString(m["name"]),
			Quantity:  asInt(m["quantity"]),
			Price:     asFloat(m["price"]),
			Image:     asString(m["image"]),
		})
	}
	return items
}
