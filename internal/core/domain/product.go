package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item as stored in the products table, together with
// the ids of the categories and collections it belongs to.
type Product struct {
	ID                 string
	Name               string
	Slug               string
	Description        string
	ProductType        string
	Price              decimal.Decimal
	HasDiscount        bool
	DiscountPrice      *decimal.Decimal
	DiscountPercentage *int
	DiscountStartDate  *time.Time
	DiscountEndDate    *time.Time
	InStock            bool
	CategoryIDs        []string
	CollectionIDs      []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProductFilter narrows catalog queries. Empty fields match everything.
type ProductFilter struct {
	CategoryIDs   []string
	CollectionIDs []string
	ProductType   string

	// DiscountedOnly restricts to in-stock products flagged with has_discount.
	// The discount window itself is evaluated by the caller.
	DiscountedOnly bool

	// Limit and Offset page the result; Limit <= 0 returns every match.
	Limit  int
	Offset int
}

// ProductRepository defines the data-access contract for catalog reads.
// Implementations live in internal/core/repository (Core layer).
type ProductRepository interface {
	// List returns products matching filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Count returns how many products match filter, ignoring Limit and Offset.
	Count(ctx context.Context, filter ProductFilter) (int, error)

	// GetBySlug returns the product with the given slug.
	// Returns (nil, nil) when no product matches.
	GetBySlug(ctx context.Context, slug string) (*Product, error)

	// GetByIDs returns the products with the given ids, in no particular order.
	// Unknown ids are silently skipped.
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}
