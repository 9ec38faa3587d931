// Package v1 provides storefront business logic for API version 1: price
// evaluation, catalog listings, order placement and admin authentication.
//
// Error Handling:
// This package defines sentinel errors that represent expected business failures.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned
// from business logic methods.
//
// Example Usage:
//
//	if admin == nil {
//	    return nil, fmt.Errorf("authenticate admin %q: %w", username, ErrAdminNotFound)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrAdminNotFound):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for storefront operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrInvalidCredentials indicates the provided credentials are incorrect.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAdminNotFound indicates no admin account has the given username.
	// HTTP Status: 401 Unauthorized (don't reveal account existence)
	ErrAdminNotFound = errors.New("admin not found")

	// ErrAccountLocked indicates the admin account has been deactivated.
	// HTTP Status: 403 Forbidden
	ErrAccountLocked = errors.New("account locked")

	// ErrAdminExists indicates the username is already taken.
	// HTTP Status: 409 Conflict
	ErrAdminExists = errors.New("admin already exists")

	// ErrProductNotFound indicates the requested product does not exist.
	// HTTP Status: 404 Not Found
	ErrProductNotFound = errors.New("product not found")

	// ErrProductOutOfStock indicates an ordered product cannot be sold right now.
	// HTTP Status: 409 Conflict
	ErrProductOutOfStock = errors.New("product out of stock")

	// ErrEmptyOrder indicates an order without items.
	// HTTP Status: 400 Bad Request
	ErrEmptyOrder = errors.New("order has no items")

	// ErrInvalidQuantity indicates an order line with a non-positive quantity.
	// HTTP Status: 400 Bad Request
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidFilter indicates a listing query that cannot be satisfied,
	// e.g. an unknown sort key or min price above max price.
	// HTTP Status: 400 Bad Request
	ErrInvalidFilter = errors.New("invalid filter")
)
