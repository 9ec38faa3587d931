package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a placed storefront order with its priced lines.
type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	ShippingAddress string          `json:"shippingAddress"`
	Note            string          `json:"note,omitempty"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderItem is one product line, priced when the order was placed.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	// Discounted records whether UnitPrice came from an active discount.
	Discounted bool            `json:"discounted"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

// OrderRepository defines the data-access contract for orders.
type OrderRepository interface {
	// Create persists the order and all of its items atomically.
	Create(ctx context.Context, order *Order) error
}
