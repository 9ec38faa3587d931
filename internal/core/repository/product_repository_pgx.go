package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/storefront-service/internal/core/domain"
)

const productColumns = `
	p.id, p.name, p.slug, p.description, p.product_type, p.price,
	p.has_discount, p.discount_price, p.discount_percentage,
	p.discount_start_date, p.discount_end_date, p.in_stock,
	p.created_at, p.updated_at,
	ARRAY(SELECT pc.category_id FROM product_categories pc WHERE pc.product_id = p.id ORDER BY pc.category_id),
	ARRAY(SELECT pl.collection_id FROM product_collections pl WHERE pl.product_id = p.id ORDER BY pl.collection_id)
`

// PgxProductRepository implements domain.ProductRepository using pgxpool.
type PgxProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PgxProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{pool: pool}
}

// List returns products matching filter, newest first.
func (r *PgxProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	where, args := buildProductWhere(filter)
	query := `SELECT ` + productColumns + ` FROM products p` + where + ` ORDER BY p.created_at DESC, p.id`

	if filter.Limit > 0 {
		args = append(args, filter.Limit, max(filter.Offset, 0))
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Count returns how many products match filter, ignoring Limit and Offset.
func (r *PgxProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	where, args := buildProductWhere(filter)

	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetBySlug returns the product with the given slug.
// Returns (nil, nil) when no product matches.
func (r *PgxProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products p WHERE p.slug = $1`, slug)
	if err != nil {
		return nil, err
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns the products with the given ids. Unknown ids are skipped.
func (r *PgxProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// buildProductWhere renders filter as a WHERE clause with positional args.
func buildProductWhere(filter domain.ProductFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = ANY($%d))", len(args)))
	}
	if len(filter.CollectionIDs) > 0 {
		args = append(args, filter.CollectionIDs)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_collections pl WHERE pl.product_id = p.id AND pl.collection_id = ANY($%d))", len(args)))
	}
	if filter.ProductType != "" {
		args = append(args, filter.ProductType)
		clauses = append(clauses, fmt.Sprintf("p.product_type = $%d", len(args)))
	}
	if filter.DiscountedOnly {
		clauses = append(clauses, "p.has_discount", "p.in_stock")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func scanProduct(row pgx.CollectableRow) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ProductType, &p.Price,
		&p.HasDiscount, &p.DiscountPrice, &p.DiscountPercentage,
		&p.DiscountStartDate, &p.DiscountEndDate, &p.InStock,
		&p.CreatedAt, &p.UpdatedAt,
		&p.CategoryIDs, &p.CollectionIDs,
	)
	return p, err
}
