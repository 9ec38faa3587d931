package v1

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/storefront-service/internal/core/domain"
)

var (
	windowStart = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

func money(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// assertMoney compares amounts by value, ignoring decimal scale.
func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, money(want).Equal(got), "want %s, got %s", want, got)
}

func discounted() domain.Product {
	return domain.Product{
		ID:                 "p-1",
		Name:               "Jade bracelet",
		Slug:               "jade-bracelet",
		Price:              money("100"),
		HasDiscount:        true,
		DiscountPrice:      ptr(money("80")),
		DiscountPercentage: ptr(20),
		DiscountStartDate:  ptr(windowStart),
		DiscountEndDate:    ptr(windowEnd),
		InStock:            true,
	}
}

func TestEvaluatePrice(t *testing.T) {
	mid := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mutate     func(p *domain.Product)
		now        time.Time
		wantPrice  string
		wantActive bool
		wantPct    *int
	}{
		{name: "inside window", now: mid, wantPrice: "80", wantActive: true, wantPct: ptr(20)},
		{name: "start is inclusive", now: windowStart, wantPrice: "80", wantActive: true, wantPct: ptr(20)},
		{name: "end is inclusive", now: windowEnd, wantPrice: "80", wantActive: true, wantPct: ptr(20)},
		{name: "just before start", now: windowStart.Add(-time.Nanosecond), wantPrice: "100"},
		{name: "just after end", now: windowEnd.Add(time.Nanosecond), wantPrice: "100"},
		{name: "after end", now: windowEnd.Add(48 * time.Hour), wantPrice: "100"},
		{
			name:      "flag off ignores window",
			mutate:    func(p *domain.Product) { p.HasDiscount = false },
			now:       mid,
			wantPrice: "100",
		},
		{
			name:      "missing start",
			mutate:    func(p *domain.Product) { p.DiscountStartDate = nil },
			now:       mid,
			wantPrice: "100",
		},
		{
			name:      "missing end",
			mutate:    func(p *domain.Product) { p.DiscountEndDate = nil },
			now:       mid,
			wantPrice: "100",
		},
		{
			name: "inverted window never matches",
			mutate: func(p *domain.Product) {
				p.DiscountStartDate, p.DiscountEndDate = p.DiscountEndDate, p.DiscountStartDate
			},
			now:       mid,
			wantPrice: "100",
		},
		{
			name:       "active without discount price keeps base price",
			mutate:     func(p *domain.Product) { p.DiscountPrice = nil },
			now:        mid,
			wantPrice:  "100",
			wantActive: true,
			wantPct:    ptr(20),
		},
		{
			name:       "stored percentage is trusted as-is",
			mutate:     func(p *domain.Product) { p.DiscountPercentage = ptr(50) },
			now:        mid,
			wantPrice:  "80",
			wantActive: true,
			wantPct:    ptr(50),
		},
		{
			name:       "active without percentage",
			mutate:     func(p *domain.Product) { p.DiscountPercentage = nil },
			now:        mid,
			wantPrice:  "80",
			wantActive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := discounted()
			if tt.mutate != nil {
				tt.mutate(&p)
			}

			got := EvaluatePrice(&p, tt.now)

			assertMoney(t, tt.wantPrice, got.EffectivePrice)
			assert.Equal(t, tt.wantActive, got.IsDiscountActive)
			assert.Equal(t, tt.wantPct, got.DisplayPercentage)
			if got.IsDiscountActive {
				assert.True(t, got.EffectivePrice.LessThanOrEqual(p.Price))
			} else {
				assert.True(t, p.Price.Equal(got.EffectivePrice))
			}
		})
	}
}

func TestEvaluatePrice_NilProduct(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, PriceQuote{}, EvaluatePrice(nil, time.Now()))
	})
	assert.False(t, DiscountListable(nil, time.Now()))
}

func TestEvaluatePrice_DoesNotAliasPercentage(t *testing.T) {
	p := discounted()
	got := EvaluatePrice(&p, windowStart)
	require.NotNil(t, got.DisplayPercentage)

	*got.DisplayPercentage = 99
	assert.Equal(t, 20, *p.DiscountPercentage)
}

func TestDiscountListable(t *testing.T) {
	mid := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)

	p := discounted()
	assert.True(t, DiscountListable(&p, mid))

	p.InStock = false
	assert.False(t, DiscountListable(&p, mid), "out of stock is excluded")

	p = discounted()
	assert.False(t, DiscountListable(&p, windowEnd.Add(time.Second)), "expired window is excluded")

	p.HasDiscount = false
	assert.False(t, DiscountListable(&p, mid))
}

func TestPriceProducts_IndependentPerItem(t *testing.T) {
	mid := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)

	plain := domain.Product{ID: "p-2", Price: money("40"), InStock: true}
	expired := discounted()
	expired.ID = "p-3"
	expired.DiscountEndDate = ptr(windowStart.Add(time.Hour))

	got := PriceProducts([]domain.Product{discounted(), plain, expired}, mid)
	require.Len(t, got, 3)

	assertMoney(t, "80", got[0].EffectivePrice)
	assert.NotNil(t, got[0].DiscountEndDate)

	assertMoney(t, "40", got[1].EffectivePrice)
	assert.Equal(t, []string{}, got[1].CategoryIDs)

	assertMoney(t, "100", got[2].EffectivePrice)
	assert.False(t, got[2].IsDiscountActive)
	assert.Nil(t, got[2].DiscountEndDate, "inactive windows are not exposed")
}
