package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/storefront-service/internal/core/domain"
)

// PgxAdminUserRepository implements domain.AdminUserRepository using pgxpool.
type PgxAdminUserRepository struct {
	pool *pgxpool.Pool
}

// NewAdminUserRepository creates a new PgxAdminUserRepository.
func NewAdminUserRepository(pool *pgxpool.Pool) *PgxAdminUserRepository {
	return &PgxAdminUserRepository{pool: pool}
}

// GetByUsername returns the admin matching the given username.
// Returns (nil, nil) when no admin is found.
func (r *PgxAdminUserRepository) GetByUsername(ctx context.Context, username string) (*domain.AdminUserRow, error) {
	query := `
		SELECT id, username, password_hash, role, active, last_login, created_at
		FROM admin_users
		WHERE username = $1
	`

	var row domain.AdminUserRow
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&row.ID, &row.Username, &row.PasswordHash, &row.Role, &row.Active, &row.LastLogin, &row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// Create inserts a new active admin and returns its id.
func (r *PgxAdminUserRepository) Create(ctx context.Context, username, passwordHash, role string) (string, error) {
	query := `INSERT INTO admin_users (id, username, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`

	var id string
	if err := r.pool.QueryRow(ctx, query, uuid.NewString(), username, passwordHash, role).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateLastLogin sets last_login to now for the given admin.
func (r *PgxAdminUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE admin_users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
