package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/storefront-service/internal/core/domain"
	"github.com/duynhne/storefront-service/internal/core/session"
	logicv1 "github.com/duynhne/storefront-service/internal/logic/v1"
	"github.com/duynhne/storefront-service/middleware"
	pkgzerolog "github.com/duynhne/storefront-service/pkg/logger/zerolog"
)

// Login handles admin login and stores the session token in the
// adminAuthToken cookie.
// POST /api/v1/admin/auth/login
func (h *Handler) Login(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn().Err(err).Msg("Invalid login request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	result, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrAdminNotFound):
			// Don't reveal whether the username exists.
			middleware.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			logger.Warn().Str("username", req.Username).Msg("Login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, logicv1.ErrAccountLocked):
			middleware.LoginAttempts.WithLabelValues("locked").Inc()
			logger.Warn().Str("username", req.Username).Msg("Login for locked account")
			c.JSON(http.StatusForbidden, gin.H{"error": "Account locked"})
		default:
			middleware.LoginAttempts.WithLabelValues("error").Inc()
			logger.Error().Err(err).Msg("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	http.SetCookie(c.Writer, session.NewCookie(result.Token, h.secureCookie))
	middleware.LoginAttempts.WithLabelValues("success").Inc()

	logger.Info().Str("username", result.User.Username).Msg("Login successful")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"user":      result.User,
		"expiresAt": result.ExpiresAt,
	})
}

// Logout deletes the session cookie. There is no server-side session to end.
// POST /api/v1/admin/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	_, span := startSpan(c)
	defer span.End()

	http.SetCookie(c.Writer, session.ExpiredCookie(h.secureCookie))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckSession reports whether the request carries a valid admin session.
// Clients revalidate any cached "logged in" state against this endpoint.
// GET /api/v1/admin/auth/check
func (h *Handler) CheckSession(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()

	status := h.auth.Check(ctx, session.TokenFromRequest(c.Request))
	span.SetAttributes(attribute.Bool("session.authenticated", status.Authenticated))

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, status)
}
