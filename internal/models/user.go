package models

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User is created on first login and only has its timestamps refreshed on
// subsequent logins.
type User struct {
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cart holds one customer's current cart. Saves replace the whole item
// sequence, last write wins.
type Cart struct {
	Email     string     `json:"email"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CustomerProfile carries the shipping address, upserted independently of
// the cart and user records.
type CustomerProfile struct {
	Email    string  `json:"email"`
	Shipping Address `json:"shipping"`
}
