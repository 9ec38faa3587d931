package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/storefront-service/config"
	logicv1 "github.com/duynhne/storefront-service/internal/logic/v1"
	"github.com/duynhne/storefront-service/middleware"
)

// Handler groups HTTP handlers for the storefront API v1 and the admin area.
// Dependencies are injected via the constructor, there is no global state.
type Handler struct {
	auth    *logicv1.AuthService
	catalog *logicv1.CatalogService
	orders  *logicv1.OrderService

	// secureCookie marks session cookies Secure (HTTPS deployments).
	secureCookie bool
	adminPrefix  string
}

// NewHandler creates a new Handler with the given services.
func NewHandler(auth *logicv1.AuthService, catalog *logicv1.CatalogService, orders *logicv1.OrderService, cfg config.AuthConfig) *Handler {
	return &Handler{
		auth:         auth,
		catalog:      catalog,
		orders:       orders,
		secureCookie: cfg.CookieSecure,
		adminPrefix:  cfg.AdminPathPrefix,
	}
}

// RegisterRoutes registers the JSON API on the given router group (/api/v1).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/discounted", h.ListDiscountedProducts)
	rg.GET("/products/:slug", h.GetProduct)
	rg.POST("/orders", h.PlaceOrder)

	rg.POST("/admin/auth/login", h.Login)
	rg.POST("/admin/auth/logout", h.Logout)
	rg.GET("/admin/auth/check", h.CheckSession)
}

// RegisterAdminRoutes registers the admin area on a group that sits behind
// middleware.AdminGate.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.AdminDashboard)
	rg.GET("/login", h.AdminLoginPage)
	rg.GET("/dashboard", h.AdminDashboard)
}

func startSpan(c *gin.Context) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
}
