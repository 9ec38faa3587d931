package v1

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/storefront-service/config"
	"github.com/duynhne/storefront-service/internal/core/domain"
	"github.com/duynhne/storefront-service/middleware"
)

// Sort keys accepted by the discounted listing.
const (
	SortDiscount  = "discount"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNewest    = "newest"
)

// ListQuery selects a page of the catalog.
type ListQuery struct {
	CategoryIDs   []string
	CollectionIDs []string
	ProductType   string
	Page          int
	PageSize      int
}

// DiscountQuery selects a page of the discounted listing. Price bounds apply
// to the effective price.
type DiscountQuery struct {
	ListQuery
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// ProductPage is one page of priced products.
type ProductPage struct {
	Items      []PricedProduct `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// DashboardSummary is the admin landing overview.
type DashboardSummary struct {
	Products        int `json:"products"`
	ActiveDiscounts int `json:"activeDiscounts"`
	// ListedDiscounts are active discounts that are also in stock.
	ListedDiscounts int `json:"listedDiscounts"`
}

// CatalogService prices and lists catalog products.
type CatalogService struct {
	products        domain.ProductRepository
	defaultPageSize int
	maxPageSize     int
	now             func() time.Time
}

// NewCatalogService creates a CatalogService reading from products.
func NewCatalogService(products domain.ProductRepository, cfg config.CatalogConfig) *CatalogService {
	return &CatalogService{
		products:        products,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
		now:             time.Now,
	}
}

// WithClock returns a copy of the service that prices at now().
func (s *CatalogService) WithClock(now func() time.Time) *CatalogService {
	cp := *s
	cp.now = now
	return &cp
}

// ListProducts returns one page of the catalog, newest first.
func (s *CatalogService) ListProducts(ctx context.Context, q ListQuery) (*ProductPage, error) {
	ctx, span := middleware.StartSpan(ctx, "catalog.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	page, size := s.normalizePage(q.Page, q.PageSize)
	filter := domain.ProductFilter{
		CategoryIDs:   q.CategoryIDs,
		CollectionIDs: q.CollectionIDs,
		ProductType:   q.ProductType,
	}

	total, err := s.products.Count(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count products: %w", err)
	}

	filter.Limit = size
	filter.Offset = (page - 1) * size
	products, err := s.products.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list products: %w", err)
	}

	span.SetAttributes(attribute.Int("catalog.total", total))
	return newPage(PriceProducts(products, s.now()), total, page, size), nil
}

// GetProduct returns the priced product with the given slug.
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*PricedProduct, error) {
	ctx, span := middleware.StartSpan(ctx, "catalog.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("product.slug", slug),
	))
	defer span.End()

	p, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query product %q: %w", slug, err)
	}
	if p == nil {
		return nil, fmt.Errorf("get product %q: %w", slug, ErrProductNotFound)
	}

	view := PriceProduct(p, s.now())
	return &view, nil
}

// ListDiscounted returns the products whose discount is live right now and
// that are in stock, filtered by effective price, sorted and paged.
func (s *CatalogService) ListDiscounted(ctx context.Context, q DiscountQuery) (*ProductPage, error) {
	ctx, span := middleware.StartSpan(ctx, "catalog.list_discounted", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("sort", q.Sort),
	))
	defer span.End()

	sortKey := q.Sort
	if sortKey == "" {
		sortKey = SortDiscount
	}
	if !slices.Contains([]string{SortDiscount, SortPriceAsc, SortPriceDesc, SortNewest}, sortKey) {
		return nil, fmt.Errorf("sort %q: %w", q.Sort, ErrInvalidFilter)
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return nil, fmt.Errorf("price range %v > %v: %w", *q.MinPrice, *q.MaxPrice, ErrInvalidFilter)
	}

	candidates, err := s.products.List(ctx, domain.ProductFilter{
		CategoryIDs:    q.CategoryIDs,
		CollectionIDs:  q.CollectionIDs,
		ProductType:    q.ProductType,
		DiscountedOnly: true,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list discount candidates: %w", err)
	}

	now := s.now()
	items := make([]PricedProduct, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		if !DiscountListable(p, now) {
			continue
		}
		view := PriceProduct(p, now)
		if q.MinPrice != nil && view.EffectivePrice.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && view.EffectivePrice.GreaterThan(*q.MaxPrice) {
			continue
		}
		items = append(items, view)
	}

	sortPriced(items, sortKey)

	page, size := s.normalizePage(q.Page, q.PageSize)
	total := len(items)
	start := min((page-1)*size, total)
	end := min(start+size, total)

	span.SetAttributes(
		attribute.Int("catalog.candidates", len(candidates)),
		attribute.Int("catalog.total", total),
	)
	return newPage(items[start:end], total, page, size), nil
}

// Dashboard counts the catalog and its live discounts.
func (s *CatalogService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	ctx, span := middleware.StartSpan(ctx, "catalog.dashboard", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	// Out-of-stock items can still carry a live discount, so every product is
	// scanned rather than the listing pre-selection.
	all, err := s.products.List(ctx, domain.ProductFilter{})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list products: %w", err)
	}

	summary := &DashboardSummary{Products: len(all)}
	now := s.now()
	for i := range all {
		if DiscountActive(&all[i], now) {
			summary.ActiveDiscounts++
		}
		if DiscountListable(&all[i], now) {
			summary.ListedDiscounts++
		}
	}
	return summary, nil
}

// normalizePage applies the configured page size bounds and caps page so
// that (page-1)*size never overflows.
func (s *CatalogService) normalizePage(page, size int) (int, int) {
	if size < 1 {
		size = s.defaultPageSize
	}
	if s.maxPageSize > 0 && size > s.maxPageSize {
		size = s.maxPageSize
	}
	size = max(size, 1)

	page = min(max(page, 1), math.MaxInt/size)
	return page, size
}

func newPage(items []PricedProduct, total, page, size int) *ProductPage {
	if items == nil {
		items = []PricedProduct{}
	}
	return &ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
	}
}

func sortPriced(items []PricedProduct, key string) {
	newest := func(a, b PricedProduct) int { return b.CreatedAt.Compare(a.CreatedAt) }

	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(items, func(a, b PricedProduct) int {
			return cmp.Or(a.EffectivePrice.Cmp(b.EffectivePrice), newest(a, b))
		})
	case SortPriceDesc:
		slices.SortStableFunc(items, func(a, b PricedProduct) int {
			return cmp.Or(b.EffectivePrice.Cmp(a.EffectivePrice), newest(a, b))
		})
	case SortNewest:
		slices.SortStableFunc(items, newest)
	default:
		// Biggest advertised percentage first; products without one go last.
		slices.SortStableFunc(items, func(a, b PricedProduct) int {
			return cmp.Or(cmp.Compare(percentOrMinus(b), percentOrMinus(a)), newest(a, b))
		})
	}
}

func percentOrMinus(p PricedProduct) int {
	if p.DisplayPercentage == nil {
		return -1
	}
	return *p.DisplayPercentage
}
