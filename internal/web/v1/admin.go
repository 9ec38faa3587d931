package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/storefront-service/internal/core/session"
	"github.com/duynhne/storefront-service/middleware"
	pkgzerolog "github.com/duynhne/storefront-service/pkg/logger/zerolog"
)

// AdminLoginPage describes the login form. The gate never redirects here
// from itself, so it is reachable with or without a session.
// GET /admin/login
func (h *Handler) AdminLoginPage(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()

	status := h.auth.Check(ctx, session.TokenFromRequest(c.Request))
	c.JSON(http.StatusOK, gin.H{
		"loginEndpoint": "/api/v1/admin/auth/login",
		"from":          middleware.ReturnPath(c.Query(middleware.ReturnToParam), h.adminPrefix),
		"session":       status,
	})
}

// AdminDashboard shows the catalog overview to a signed-in admin.
// GET /admin/dashboard
func (h *Handler) AdminDashboard(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()

	claims := middleware.AdminClaims(c)
	if claims == nil {
		// Only reachable when mounted without the gate.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.catalog.Dashboard(ctx)
	if err != nil {
		span.RecordError(err)
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("Dashboard summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"admin":   gin.H{"username": claims.Username, "role": claims.Role},
		"summary": summary,
	})
}
