package domain

import "time"

// DefaultRating is applied to new products without an explicit rating.
const DefaultRating = 4.5

// Product is a catalog item.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	OriginalPrice   float64   `json:"originalPrice"`
	DiscountedPrice float64   `json:"discountedPrice"`
	Image           string    `json:"image"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Rating          float64   `json:"rating"`
	Reviews         int       `json:"reviews"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
