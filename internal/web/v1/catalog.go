package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	logicv1 "github.com/duynhne/storefront-service/internal/logic/v1"
	pkgzerolog "github.com/duynhne/storefront-service/pkg/logger/zerolog"
)

// ListProducts handles the catalog listing.
// GET /api/v1/products?categories=&collections=&type=&page=&pageSize=
func (h *Handler) ListProducts(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()

	q, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.catalog.ListProducts(ctx, q)
	if err != nil {
		span.RecordError(err)
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("List products failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListDiscountedProducts handles the listing of products on sale right now.
// GET /api/v1/products/discounted?categories=&collections=&type=&minPrice=&maxPrice=&sort=&page=&pageSize=
func (h *Handler) ListDiscountedProducts(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()

	lq, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := logicv1.DiscountQuery{ListQuery: lq, Sort: c.Query("sort")}
	if q.MinPrice, err = parsePrice(c, "minPrice"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.MaxPrice, err = parsePrice(c, "maxPrice"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.catalog.ListDiscounted(ctx, q)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, logicv1.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("List discounted products failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProduct handles the product detail page.
// GET /api/v1/products/:slug
func (h *Handler) GetProduct(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()

	product, err := h.catalog.GetProduct(ctx, c.Param("slug"))
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, logicv1.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		pkgzerolog.FromContext(ctx).Error().Err(err).Msg("Get product failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func parseListQuery(c *gin.Context) (logicv1.ListQuery, error) {
	q := logicv1.ListQuery{
		CategoryIDs:   splitList(c.QueryArray("categories")),
		CollectionIDs: splitList(c.QueryArray("collections")),
		ProductType:   strings.TrimSpace(c.Query("type")),
	}

	var err error
	if q.Page, err = parseInt(c, "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = parseInt(c, "pageSize"); err != nil {
		return q, err
	}
	return q, nil
}

// splitList accepts both repeated parameters and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func parsePrice(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		return nil, fmt.Errorf("%s must be a non-negative number", key)
	}
	return &v, nil
}
