package domain

import "time"

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// AdminUser is the public view of a signed-in admin.
type AdminUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResult carries the signed token back to the handler, which moves it
// into the session cookie. The token never appears in a response body.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      AdminUser
}

// SessionStatus answers the client's "am I still signed in" check.
type SessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	User          *AdminUser `json:"user,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// PlaceOrderRequest is the storefront checkout payload.
type PlaceOrderRequest struct {
	CustomerName    string             `json:"customerName" binding:"required,max=200"`
	Email           string             `json:"email" binding:"required,email,max=255"`
	Phone           string             `json:"phone" binding:"required,max=32"`
	ShippingAddress string             `json:"shippingAddress" binding:"required,max=500"`
	Note            string             `json:"note" binding:"max=1000"`
	Items           []OrderItemRequest `json:"items" binding:"required,dive"`
}

// OrderItemRequest is a single checkout line.
type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}
