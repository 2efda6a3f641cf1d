// Package seed inserts demo catalog data for manual testing.
package seed

import (
	"context"
	"fmt"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/model"
)

// Apply inserts the demo products. It is idempotent: a non-empty catalog
// is left alone.
func Apply(ctx context.Context, store docstore.Store) error {
	products := model.Products(store)

	existing, err := products.Find(ctx, model.All())
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	demo := []domain.Product{
		{
			Name:            "Gold Plated Kundan Necklace",
			OriginalPrice:   4999,
			DiscountedPrice: 3499,
			Image:           "https://cdn.example.com/products/kundan-necklace.jpg",
			Description:     "Handcrafted kundan necklace with gold plating",
			Category:        "necklaces",
		},
		{
			Name:            "Pearl Drop Earrings",
			OriginalPrice:   1999,
			DiscountedPrice: 1299,
			Image:           "https://cdn.example.com/products/pearl-earrings.jpg",
			Description:     "Freshwater pearl drops on sterling silver hooks",
			Category:        "earrings",
		},
		{
			Name:            "Oxidised Silver Bangle Set",
			OriginalPrice:   2499,
			DiscountedPrice: 1799,
			Image:           "https://cdn.example.com/products/bangle-set.jpg",
			Description:     "Set of four oxidised silver bangles",
			Category:        "bangles",
		},
	}

	for _, p := range demo {
		if _, err := products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}
	return nil
}
