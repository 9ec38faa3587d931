package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/storefront-service/internal/core/domain"
)

// PgxOrderRepository implements domain.OrderRepository using pgxpool.
type PgxOrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new PgxOrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *PgxOrderRepository {
	return &PgxOrderRepository{pool: pool}
}

// Create inserts the order and its items in a single transaction.
func (r *PgxOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (id, customer_name, email, phone, shipping_address, note, status, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			order.ID, order.CustomerName, order.Email, order.Phone, order.ShippingAddress,
			order.Note, string(order.Status), order.Total, order.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order row: %w", err)
		}

		batch := &pgx.Batch{}
		for _, item := range order.Items {
			batch.Queue(`
				INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, discounted, line_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Discounted, item.LineTotal,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
}
