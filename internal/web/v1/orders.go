package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/storefront-service/internal/core/domain"
	logicv1 "github.com/duynhne/storefront-service/internal/logic/v1"
	"github.com/duynhne/storefront-service/middleware"
	pkgzerolog "github.com/duynhne/storefront-service/pkg/logger/zerolog"
)

// PlaceOrder handles storefront checkout.
// POST /api/v1/orders
func (h *Handler) PlaceOrder(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()

	logger := pkgzerolog.FromContext(ctx)

	var req domain.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn().Err(err).Msg("Invalid order request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.PlaceOrder(ctx, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrEmptyOrder), errors.Is(err, logicv1.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, logicv1.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, logicv1.ErrProductOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error().Err(err).Msg("Place order failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	middleware.OrdersPlaced.Inc()
	logger.Info().
		Str("order_id", order.ID).
		Str("total", order.Total.StringFixed(2)).
		Int("lines", len(order.Items)).
		Msg("Order placed")
	c.JSON(http.StatusCreated, order)
}
