package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/storefront-service/internal/core/domain"
	"github.com/duynhne/storefront-service/middleware"
)

// OrderService places storefront orders, pricing each line at placement time.
type OrderService struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	now      func() time.Time
}

// NewOrderService creates a new OrderService with the given repository dependencies.
func NewOrderService(products domain.ProductRepository, orders domain.OrderRepository) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
		now:      time.Now,
	}
}

// WithClock returns a copy of the service that prices at now().
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	cp := *s
	cp.now = now
	return &cp
}

// PlaceOrder validates the cart, prices every line with the discount live at
// this instant and persists the order. Repeated product ids are merged.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error) {
	ctx, span := middleware.StartSpan(ctx, "orders.place", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("order.lines", len(req.Items)),
	))
	defer span.End()

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("place order: %w", ErrEmptyOrder)
	}

	quantities := make(map[string]int, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("product %q quantity %d: %w", item.ProductID, item.Quantity, ErrInvalidQuantity)
		}
		if _, seen := quantities[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load order products: %w", err)
	}
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	now := s.now()
	order := &domain.Order{
		ID:              uuid.NewString(),
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		Note:            req.Note,
		Status:          domain.OrderStatusPending,
		Items:           make([]domain.OrderItem, 0, len(ids)),
		CreatedAt:       now,
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("order product %q: %w", id, ErrProductNotFound)
		}
		if !p.InStock {
			return nil, fmt.Errorf("order product %q: %w", id, ErrProductOutOfStock)
		}

		quote := EvaluatePrice(p, now)
		qty := quantities[id]
		line := domain.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   quote.EffectivePrice,
			Discounted:  quote.IsDiscountActive && quote.EffectivePrice.LessThan(p.Price),
			LineTotal:   quote.EffectivePrice.Mul(decimal.NewFromInt(int64(qty))),
		}
		order.Items = append(order.Items, line)
		order.Total = order.Total.Add(line.LineTotal)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert order: %w", err)
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.total", order.Total.StringFixed(2)),
	)
	span.AddEvent("order.placed")

	return order, nil
}
