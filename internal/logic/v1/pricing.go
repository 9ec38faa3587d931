package v1

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/duynhne/storefront-service/internal/core/domain"
)

// PriceQuote is the price a product sells for at a given instant.
type PriceQuote struct {
	EffectivePrice   decimal.Decimal `json:"effectivePrice"`
	IsDiscountActive bool            `json:"isDiscountActive"`
	// DisplayPercentage is the stored percentage, shown only while the discount
	// is active. It is never derived from the prices.
	DisplayPercentage *int `json:"displayPercentage"`
}

// DiscountActive reports whether p's discount applies at now. The window is
// inclusive at both ends and requires both bounds to be set.
func DiscountActive(p *domain.Product, now time.Time) bool {
	if p == nil || !p.HasDiscount || p.DiscountStartDate == nil || p.DiscountEndDate == nil {
		return false
	}
	return !now.Before(*p.DiscountStartDate) && !now.After(*p.DiscountEndDate)
}

// EvaluatePrice quotes p at now. An active discount without a discount price
// sells at the base price.
func EvaluatePrice(p *domain.Product, now time.Time) PriceQuote {
	if p == nil {
		return PriceQuote{}
	}

	quote := PriceQuote{EffectivePrice: p.Price}
	if !DiscountActive(p, now) {
		return quote
	}

	quote.IsDiscountActive = true
	if p.DiscountPrice != nil {
		quote.EffectivePrice = *p.DiscountPrice
	}
	if p.DiscountPercentage != nil {
		pct := *p.DiscountPercentage
		quote.DisplayPercentage = &pct
	}
	return quote
}

// DiscountListable reports whether p belongs in the discounted-products
// listing at now: flagged, inside the window and in stock.
func DiscountListable(p *domain.Product, now time.Time) bool {
	return p != nil && p.InStock && DiscountActive(p, now)
}

// PricedProduct is the storefront view of a product with its quote at request time.
type PricedProduct struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Slug              string          `json:"slug"`
	Description       string          `json:"description,omitempty"`
	ProductType       string          `json:"productType"`
	Price             decimal.Decimal `json:"price"`
	InStock           bool            `json:"inStock"`
	CategoryIDs       []string        `json:"categoryIds"`
	CollectionIDs     []string        `json:"collectionIds"`
	DiscountStartDate *time.Time      `json:"discountStartDate,omitempty"`
	DiscountEndDate   *time.Time      `json:"discountEndDate,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	PriceQuote
}

// PriceProduct builds the storefront view of p at now.
func PriceProduct(p *domain.Product, now time.Time) PricedProduct {
	quote := EvaluatePrice(p, now)
	view := PricedProduct{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		ProductType:   p.ProductType,
		Price:         p.Price,
		InStock:       p.InStock,
		CategoryIDs:   nonNil(p.CategoryIDs),
		CollectionIDs: nonNil(p.CollectionIDs),
		CreatedAt:     p.CreatedAt,
		PriceQuote:    quote,
	}
	if quote.IsDiscountActive {
		view.DiscountStartDate = p.DiscountStartDate
		view.DiscountEndDate = p.DiscountEndDate
	}
	return view
}

// PriceProducts prices every product independently at the same instant.
func PriceProducts(products []domain.Product, now time.Time) []PricedProduct {
	out := make([]PricedProduct, len(products))
	for i := range products {
		out[i] = PriceProduct(&products[i], now)
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
