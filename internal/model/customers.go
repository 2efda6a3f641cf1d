package model

import (
	"strings"
	"time"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
)

// Customers builds the adapter for the CRM customers collection, keyed by
// email like users but maintained independently.
func Customers(store docstore.Store) *Adapter[domain.Customer] {
	return &Adapter[domain.Customer]{
		store:      store,
		collection: "customers",
		queryable:  map[string]bool{"email": true},
		uniqueBy:   "email",
		encode:     encodeCustomer,
		decode:     decodeCustomer,
		entityID:   func(c *domain.Customer) string { return c.ID },
		setID:      func(c *domain.Customer, id string) { c.ID = id },
		prepare:    prepareCustomer,
		now:        time.Now,
	}
}

func prepareCustomer(c *domain.Customer, now time.Time) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Email == "" {
		return domain.NewValidationError("email", "is required")
	}
	if c.Status == "" {
		c.Status = domain.CustomerActive
	}
	if !domain.ValidCustomerStatus(c.Status) {
		return domain.NewValidationError("status", "must be one of active/inactive/blocked")
	}
	if c.TotalOrders < 0 {
		return domain.NewValidationError("totalOrders", "must not be negative")
	}
	if c.TotalSpent < 0 {
		return domain.NewValidationError("totalSpent", "must not be negative")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now.UTC()
	}
	c.UpdatedAt = now.UTC()
	return nil
}

func encodeCustomer(c *domain.Customer) map[string]interface{} {
	fields := map[string]interface{}{
		"name":        c.Name,
		"email":       c.Email,
		"phone":       c.Phone,
		"address":     c.Address,
		"totalOrders": c.TotalOrders,
		"totalSpent":  c.TotalSpent,
		"status":      c.Status,
		"createdAt":   c.CreatedAt,
		"updatedAt":   c.UpdatedAt,
	}
	if c.LastOrderDate != nil {
		fields["lastOrderDate"] = c.LastOrderDate.UTC()
	} else {
		fields["lastOrderDate"] = nil
	}
	return fields
}

func decodeCustomer(doc docstore.Document) *domain.Customer {
	d := doc.Data
	return &domain.Customer{
		ID:            doc.ID,
		Name:          asString(d["name"]),
		Email:         asString(d["email"]),
		Phone:         asString(d["phone"]),
		Address:       asString(d["address"]),
		TotalOrders:   asInt(d["totalOrders"]),
		TotalSpent:    asFloat(d["totalSpent"]),
		LastOrderDate: asTimePtr(d["lastOrderDate"]),
		Status:        asString(d["status"]),
		CreatedAt:     asTime(d["createdAt"]),
		UpdatedAt:     asTime(d["updatedAt"]),
	}
}
