package domain

import "time"

// CartLine is one entry in a user's cart.
type CartLine struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Address is a saved shipping address, keyed by a generated id.
type Address struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	IsDefault  bool   `json:"isDefault,omitempty"`
}

// OrderSummary is the per-user copy of a placed order.
type OrderSummary struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber,omitempty"`
	Items       []OrderItem `json:"items,omitempty"`
	TotalAmount float64     `json:"totalAmount"`
	Status      string      `json:"status,omitempty"`
	PlacedAt    time.Time   `json:"placedAt"`
}

// User is the identity record. Email is the natural key and is stored
// lowercased.
type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Password       string         `json:"-"`
	IsVerified     bool           `json:"isVerified"`
	OTP            string         `json:"-"`
	OTPCreatedAt   *time.Time     `json:"-"`
	GoogleID       string         `json:"googleId,omitempty"`
	FirstName      string         `json:"firstName,omitempty"`
	LastName       string         `json:"lastName,omitempty"`
	ProfilePicture string         `json:"profilePicture,omitempty"`
	Cart           []CartLine     `json:"cart"`
	Addresses      []Address      `json:"addresses"`
	Orders         []OrderSummary `json:"orders"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// DisplayName derives a presentable name the way the auth endpoints report it.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return localPart(u.Email)
	}
}

func localPart(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
