package model

import (
	"time"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
)

// Products builds the adapter for the catalog collection. Products are
// addressed by id only.
func Products(store docstore.Store) *Adapter[domain.Product] {
	return &Adapter[domain.Product]{
		store:      store,
		collection: "products",
		queryable:  map[string]bool{},
		encode:     encodeProduct,
		decode:     decodeProduct,
		entityID:   func(p *domain.Product) string { return p.ID },
		setID:      func(p *domain.Product, id string) { p.ID = id },
		prepare:    prepareProduct,
		now:        time.Now,
	}
}

func prepareProduct(p *domain.Product, now time.Time) error {
	if p.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if p.OriginalPrice < 0 {
		return domain.NewValidationError("originalPrice", "must not be negative")
	}
	if p.DiscountedPrice < 0 {
		return domain.NewValidationError("discountedPrice", "must not be negative")
	}
	if p.Rating == 0 {
		p.Rating = domain.DefaultRating
	}
	if p.Rating < 0 || p.Rating > 5 {
		return domain.NewValidationError("rating", "must be between 0 and 5")
	}
	if p.Reviews < 0 {
		return domain.NewValidationError("reviews", "must not be negative")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now.UTC()
	}
	p.UpdatedAt = now.UTC()
	return nil
}

func encodeProduct(p *domain.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":            p.Name,
		"originalPrice":   p.OriginalPrice,
		"discountedPrice": p.DiscountedPrice,
		"image":           p.Image,
		"description":     p.Description,
		"category":        p.Category,
		"rating":          p.Rating,
		"reviews":         p.Reviews,
		"createdAt":       p.CreatedAt,
		"updatedAt":       p.UpdatedAt,
	}
}

func decodeProduct(doc docstore.Document) *domain.Product {
	d := doc.Data
	return &domain.Product{
		ID:              doc.ID,
		Name:            asString(d["name"]),
		OriginalPrice:   asFloat(d["originalPrice"]),
		DiscountedPrice: asFloat(d["discountedPrice"]),
		Image:           asString(d["image"]),
		Description:     asString(d["description"]),
		Category:        asString(d["category"]),
		Rating:          asFloat(d["rating"]),
		Reviews:         asInt(d["reviews"]),
		CreatedAt:       asTime(d["createdAt"]),
		UpdatedAt:       asTime(d["updatedAt"]),
	}
}
