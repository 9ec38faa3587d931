package domain

import (
	"context"
	"time"
)

// AdminUserRow represents an admin account returned from the database.
// It includes the password hash so the Logic layer can verify credentials.
type AdminUserRow struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	Active       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// AdminUserRepository defines the data-access contract for admin accounts.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL or pgx directly.
type AdminUserRepository interface {
	// GetByUsername returns the admin matching the given username.
	// Returns (nil, nil) when no admin is found.
	GetByUsername(ctx context.Context, username string) (*AdminUserRow, error)

	// Create inserts a new admin and returns the generated id.
	Create(ctx context.Context, username, passwordHash, role string) (string, error)

	// UpdateLastLogin sets last_login to now for the given admin.
	UpdateLastLogin(ctx context.Context, id string) error
}
