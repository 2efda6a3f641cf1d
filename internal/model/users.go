package model

import (
	"strings"
	"time"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
)

// Users builds the adapter for the users collection. Email is the unique
// natural key and the only queryable field besides id.
func Users(store docstore.Store) *Adapter[domain.User] {
	return &Adapter[domain.User]{
		store:      store,
		collection: "users",
		queryable:  map[string]bool{"email": true},
		uniqueBy:   "email",
		encode:     encodeUser,
		decode:     decodeUser,
		entityID:   func(u *domain.User) string { return u.ID },
		setID:      func(u *domain.User, id string) { u.ID = id },
		prepare:    prepareUser,
		now:        time.Now,
	}
}

func prepareUser(u *domain.User, now time.Time) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return domain.NewValidationError("email", "is required")
	}
	if u.Cart == nil {
		u.Cart = []domain.CartLine{}
	}
	if u.Addresses == nil {
		u.Addresses = []domain.Address{}
	}
	if u.Orders == nil {
		u.Orders = []domain.OrderSummary{}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now.UTC()
	}
	u.UpdatedAt = now.UTC()
	return nil
}

func encodeUser(u *domain.User) map[string]interface{} {
	fields := map[string]interface{}{
		"email":          u.Email,
		"password":       u.Password,
		"isVerified":     u.IsVerified,
		"otp":            u.OTP,
		"googleId":       u.GoogleID,
		"firstName":      u.FirstName,
		"lastName":       u.LastName,
		"profilePicture": u.ProfilePicture,
		"cart":           normalize(u.Cart),
		"addresses":      normalize(u.Addresses),
		"orders":         normalize(u.Orders),
		"createdAt":      u.CreatedAt,
		"updatedAt":      u.UpdatedAt,
	}
	if u.OTPCreatedAt != nil {
		fields["otpCreatedAt"] = u.OTPCreatedAt.UTC()
	} else {
		fields["otpCreatedAt"] = nil
	}
	return fields
}

func decodeUser(doc docstore.Document) *domain.User {
	d := doc.Data
	return &domain.User{
		ID:             doc.ID,
		Email:          asString(d["email"]),
		Password:       asString(d["password"]),
		IsVerified:     asBool(d["isVerified"]),
		OTP:            asString(d["otp"]),
		OTPCreatedAt:   asTimePtr(d["otpCreatedAt"]),
		GoogleID:       asString(d["googleId"]),
		FirstName:      asString(d["firstName"]),
		LastName:       asString(d["lastName"]),
		ProfilePicture: asString(d["profilePicture"]),
		Cart:           decodeCartLines(d["cart"]),
		Addresses:      decodeAddresses(d["addresses"]),
		Orders:         decodeOrderSummaries(d["orders"]),
		CreatedAt:      asTime(d["createdAt"]),
		UpdatedAt:      asTime(d["updatedAt"]),
	}
}

func decodeCartLines(v interface{}) []domain.CartLine {
	maps := asMaps(v)
	lines := make([]domain.CartLine, 0, len(maps))
	for _, m := range maps {
		lines = append(lines, domain.CartLine{
			ProductID: asString(m["productId"]),
			Name:      asString(m["name"]),
			Price:     asFloat(m["price"]),
			Quantity:  asInt(m["quantity"]),
			Image:     asString(m["image"]),
		})
	}
	return lines
}

func decodeAddresses(v interface{}) []domain.Address {
	maps := asMaps(v)
	addrs := make([]domain.Address, 0, len(maps))
	for _, m := range maps {
		addrs = append(addrs, domain.Address{
			ID:         asString(m["id"]),
			Name:       asString(m["name"]),
			Phone:      asString(m["phone"]),
			Line1:      asString(m["line1"]),
			Line2:      asString(m["line2"]),
			City:       asString(m["city"]),
			State:      asString(m["state"]),
			PostalCode: asString(m["postalCode"]),
			Country:    asString(m["country"]),
			IsDefault:  asBool(m["isDefault"]),
		})
	}
	return addrs
}

func decodeOrderSummaries(v interface{}) []domain.OrderSummary {
	maps := asMaps(v)
	orders := make([]domain.OrderSummary, 0, len(maps))
	for _, m := range maps {
		orders = append(orders, domain.OrderSummary{
			ID:          asString(m["id"]),
			OrderNumber: asString(m["orderNumber"]),
			Items:       decodeOrderItems(m["items"]),
			TotalAmount: asFloat(m["totalAmount"]),
			Status:      asString(m["status"]),
			PlacedAt:    asTime(m["placedAt"]),
		})
	}
	return orders
}
