package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/storefront-service/config"
	"github.com/duynhne/storefront-service/internal/core/domain"
	"github.com/duynhne/storefront-service/internal/core/session"
	logicv1 "github.com/duynhne/storefront-service/internal/logic/v1"
	"github.com/duynhne/storefront-service/middleware"
)

var testNow = time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

type stubAdmins struct{ mock.Mock }

func (m *stubAdmins) GetByUsername(ctx context.Context, username string) (*domain.AdminUserRow, error) {
	args := m.Called(ctx, username)
	row, _ := args.Get(0).(*domain.AdminUserRow)
	return row, args.Error(1)
}

func (m *stubAdmins) Create(ctx context.Context, username, hash, role string) (string, error) {
	args := m.Called(ctx, username, hash, role)
	return args.String(0), args.Error(1)
}

func (m *stubAdmins) UpdateLastLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type stubProducts struct{ mock.Mock }

func (m *stubProducts) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).([]domain.Product)
	return p, args.Error(1)
}

func (m *stubProducts) Count(ctx context.Context, f domain.ProductFilter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *stubProducts) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *stubProducts) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	p, _ := args.Get(0).([]domain.Product)
	return p, args.Error(1)
}

type stubOrders struct{ mock.Mock }

func (m *stubOrders) Create(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

type fixture struct {
	router   *gin.Engine
	codec    *session.Codec
	admins   *stubAdmins
	products *stubProducts
	orders   *stubOrders
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := session.NewCodec("0123456789abcdef0123456789abcdef", config.TokenTTL)
	require.NoError(t, err)
	codec = codec.WithClock(func() time.Time { return testNow })

	f := &fixture{codec: codec, admins: &stubAdmins{}, products: &stubProducts{}, orders: &stubOrders{}}

	clock := func() time.Time { return testNow }
	h := NewHandler(
		logicv1.NewAuthService(f.admins, codec),
		logicv1.NewCatalogService(f.products, config.CatalogConfig{DefaultPageSize: 12, MaxPageSize: 100}).WithClock(clock),
		logicv1.NewOrderService(f.products, f.orders).WithClock(clock),
		config.AuthConfig{AdminPathPrefix: "/admin", LoginPath: "/admin/login"},
	)

	r := gin.New()
	r.Use(middleware.AdminGate(codec, middleware.AdminGateConfig{Prefix: "/admin", LoginPath: "/admin/login"}))
	h.RegisterRoutes(r.Group("/api/v1"))
	h.RegisterAdminRoutes(r.Group("/admin"))
	f.router = r
	return f
}

func (f *fixture) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_SetsSessionCookieAndOpensAdmin(t *testing.T) {
	f := newFixture(t)
	f.admins.On("GetByUsername", mock.Anything, "minh").Return(&domain.AdminUserRow{
		ID: "a-1", Username: "minh", PasswordHash: hashed(t, "s3cret-pass"), Role: session.RoleAdmin, Active: true,
	}, nil)
	f.admins.On("UpdateLastLogin", mock.Anything, "a-1").Return(nil)
	f.products.On("List", mock.Anything, domain.ProductFilter{}).Return([]domain.Product{}, nil)

	w := f.do(http.MethodPost, "/api/v1/admin/auth/login", gin.H{"username": "minh", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "token")

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	w = f.do(http.MethodGet, "/admin/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"admin":{"username":"minh","role":"admin"},"summary":{"products":0,"activeDiscounts":0,"listedDiscounts":0}}`,
		w.Body.String())

	w = f.do(http.MethodGet, "/api/v1/admin/auth/check", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var status domain.SessionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Authenticated)
	assert.Equal(t, "minh", status.User.Username)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	f.admins.On("GetByUsername", mock.Anything, "minh").Return(&domain.AdminUserRow{
		ID: "a-1", Username: "minh", PasswordHash: hashed(t, "s3cret-pass"), Role: session.RoleAdmin, Active: true,
	}, nil)
	f.admins.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)
	f.admins.On("GetByUsername", mock.Anything, "broken").Return(nil, assert.AnError)

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "wrong password", body: gin.H{"username": "minh", "password": "nope"}, want: http.StatusUnauthorized},
		{name: "unknown user", body: gin.H{"username": "ghost", "password": "nope"}, want: http.StatusUnauthorized},
		{name: "missing password", body: gin.H{"username": "minh"}, want: http.StatusBadRequest},
		{name: "store failure", body: gin.H{"username": "broken", "password": "x"}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/api/v1/admin/auth/login", tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Nil(t, sessionCookie(w))
		})
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/api/v1/admin/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestCheckSession_Anonymous(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/admin/auth/check", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestAdminArea_Gating(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/admin/login?from=%2Fadmin%2Fdashboard", w.Header().Get("Location"))

	editor, err := f.codec.Sign("lan", "editor")
	require.NoError(t, err)
	w = f.do(http.MethodGet, "/admin/dashboard", nil, &http.Cookie{Name: session.CookieName, Value: editor})
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)

	w = f.do(http.MethodGet, "/admin/login?from=%2Fadmin%2Fdashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"from":"/admin/dashboard"`)

	for _, from := range []string{"https%3A%2F%2Fevil.example%2Fadmin", "%2F%2Fevil.example", "%2Fproducts"} {
		w = f.do(http.MethodGet, "/admin/login?from="+from, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"from":""`, "off-site or out-of-area targets are dropped")
	}

	w = f.do(http.MethodGet, "/admin/unknown-page", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code, "unrouted admin paths are gated too")
}

func TestListDiscountedProducts(t *testing.T) {
	f := newFixture(t)
	start, end := testNow.Add(-time.Hour), testNow.Add(time.Hour)
	sale, pct := decimal.NewFromInt(80), 20
	f.products.On("List", mock.Anything, domain.ProductFilter{
		CategoryIDs:    []string{"c1", "c2"},
		ProductType:    "ring",
		DiscountedOnly: true,
	}).Return([]domain.Product{{
		ID: "p1", Slug: "p1", Price: decimal.NewFromInt(100), HasDiscount: true, DiscountPrice: &sale, DiscountPercentage: &pct,
		DiscountStartDate: &start, DiscountEndDate: &end, InStock: true,
	}}, nil)

	w := f.do(http.MethodGet, "/api/v1/products/discounted?categories=c1,c2&type=ring&sort=price-asc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page logicv1.ProductPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.True(t, decimal.NewFromInt(80).Equal(page.Items[0].EffectivePrice))
	assert.Contains(t, w.Body.String(), `"effectivePrice":"80"`)
	assert.True(t, page.Items[0].IsDiscountActive)
	require.NotNil(t, page.Items[0].DisplayPercentage)
	assert.Equal(t, 20, *page.Items[0].DisplayPercentage)
}

func TestListDiscountedProducts_BadQuery(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{"sort=cheapest", "minPrice=abc", "maxPrice=-1", "page=two", "minPrice=10&maxPrice=5"} {
		t.Run(q, func(t *testing.T) {
			w := f.do(http.MethodGet, "/api/v1/products/discounted?"+q, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListDiscountedProducts_OutOfRangePages(t *testing.T) {
	f := newFixture(t)
	f.products.On("List", mock.Anything, mock.Anything).Return([]domain.Product{}, nil)

	for _, q := range []string{"page=-1", "page=0", "page=4611686018427387905", "page=9223372036854775807&pageSize=100"} {
		t.Run(q, func(t *testing.T) {
			w := f.do(http.MethodGet, "/api/v1/products/discounted?"+q, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var page logicv1.ProductPage
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
			assert.Empty(t, page.Items)
			assert.GreaterOrEqual(t, page.Page, 1)
		})
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newFixture(t)
	f.products.On("GetBySlug", mock.Anything, "missing").Return(nil, nil)

	w := f.do(http.MethodGet, "/api/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	f.products.On("GetByIDs", mock.Anything, []string{"p1"}).Return([]domain.Product{{ID: "p1", Name: "Citrine", Price: decimal.RequireFromString("25.50"), InStock: true}}, nil)
	f.products.On("GetByIDs", mock.Anything, []string{"ghost"}).Return([]domain.Product{}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	body := func(productID string, qty int) gin.H {
		return gin.H{
			"customerName":    "Lan",
			"email":           "lan@example.com",
			"phone":           "0900000000",
			"shippingAddress": "Hanoi",
			"items":           []gin.H{{"productId": productID, "quantity": qty}},
		}
	}

	w := f.do(http.MethodPost, "/api/v1/orders", body("p1", 2))
	require.Equal(t, http.StatusCreated, w.Code)
	var order domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "51.00", order.Total.StringFixed(2))
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	w = f.do(http.MethodPost, "/api/v1/orders", body("ghost", 1))
	assert.Equal(t, http.StatusNotFound, w.Code)

	bad := body("p1", 1)
	bad["email"] = "not-an-email"
	w = f.do(http.MethodPost, "/api/v1/orders", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
