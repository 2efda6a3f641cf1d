package domain

import "time"

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment methods.
const (
	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodPaypal   = "paypal"
)

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// Order is a purchase record. OrderNumber is assigned exactly once,
// before first persistence.
type Order struct {
	ID                string      `json:"id"`
	OrderNumber       string      `json:"orderNumber"`
	Customer          string      `json:"customer,omitempty"`
	CustomerName      string      `json:"customerName,omitempty"`
	CustomerEmail     string      `json:"customerEmail,omitempty"`
	CustomerPhone     string      `json:"customerPhone,omitempty"`
	ShippingAddress   string      `json:"shippingAddress,omitempty"`
	Items             []OrderItem `json:"items"`
	TotalAmount       float64     `json:"totalAmount"`
	Status            string      `json:"status"`
	PaymentStatus     string      `json:"paymentStatus"`
	PaymentMethod     string      `json:"paymentMethod,omitempty"`
	RazorpayOrderID   string      `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string      `json:"razorpayPaymentId,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// ValidOrderStatus reports whether s is one of the order status values.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is one of the payment status values.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether s is a supported payment method.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCOD, PaymentMethodRazorpay, PaymentMethodPaypal:
		return true
	}
	return false
}
