package v1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/storefront-service/internal/core/domain"
	"github.com/duynhne/storefront-service/internal/core/session"
	"github.com/duynhne/storefront-service/middleware"
)

// TokenCodec signs and verifies admin session tokens.
type TokenCodec interface {
	// Issue signs a token and returns it with its expiry.
	Issue(username, role string) (string, time.Time, error)
	Verify(token string) *session.Claims
}

// AuthService implements admin authentication business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly. Sessions are stateless:
// the signed token is the whole session.
type AuthService struct {
	admins domain.AdminUserRepository
	tokens TokenCodec
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(admins domain.AdminUserRepository, tokens TokenCodec) *AuthService {
	return &AuthService{
		admins: admins,
		tokens: tokens,
	}
}

// Login verifies the admin's password and issues a session token carrying the
// stored role.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	row, err := s.admins.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query admin %q: %w", req.Username, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate admin %q: %w", req.Username, ErrAdminNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate admin %q: %w", req.Username, ErrInvalidCredentials)
	}

	if !row.Active {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, fmt.Errorf("authenticate admin %q: %w", req.Username, ErrAccountLocked)
	}

	token, expiresAt, err := s.tokens.Issue(row.Username, row.Role)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token for %q: %w", row.Username, err)
	}

	// Best-effort, don't fail login.
	if updateErr := s.admins.UpdateLastLogin(ctx, row.ID); updateErr != nil {
		span.RecordError(fmt.Errorf("update last_login: %w", updateErr))
	}

	result := &domain.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      domain.AdminUser{Username: row.Username, Role: row.Role},
	}

	span.SetAttributes(
		attribute.String("admin.role", row.Role),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("admin.authenticated")

	return result, nil
}

// Check reports whether token is a valid admin session. It is the server-side
// answer behind any client-side "logged in" flag.
func (s *AuthService) Check(ctx context.Context, token string) domain.SessionStatus {
	_, span := middleware.StartSpan(ctx, "auth.check", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	claims := s.tokens.Verify(token)
	if !claims.IsAdmin() {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return domain.SessionStatus{Authenticated: false}
	}

	expires := claims.ExpiryTime()
	span.SetAttributes(attribute.Bool("session.valid", true))
	return domain.SessionStatus{
		Authenticated: true,
		User:          &domain.AdminUser{Username: claims.Username, Role: claims.Role},
		ExpiresAt:     &expires,
	}
}

// CreateAdmin hashes password and stores a new admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password, role string) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.create_admin", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	if username == "" || len(password) < 8 {
		return "", errors.New("username is required and password must be at least 8 characters")
	}
	if role == "" {
		role = session.RoleAdmin
	}

	existing, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("check existing admin: %w", err)
	}
	if existing != nil {
		return "", fmt.Errorf("create admin %q: %w", username, ErrAdminExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.admins.Create(ctx, username, string(hash), role)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("insert admin: %w", err)
	}
	return id, nil
}
