package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
	redisrepo "github.com/harith2255/ecommerce-frontend/internal/repository/redis"
	"github.com/harith2255/ecommerce-frontend/internal/service"
	"github.com/harith2255/ecommerce-frontend/internal/upstream"
	apperrors "github.com/harith2255/ecommerce-frontend/pkg/errors"
	"github.com/harith2255/ecommerce-frontend/pkg/health"
	"github.com/harith2255/ecommerce-frontend/pkg/middleware"
)

const testJWTSecret = "test-secret"

// ============================================================================
// Stub upstream APIs
// ============================================================================

type stubCatalog struct {
	products map[string]domain.Product
}

func (s *stubCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return &p, nil
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: "c1", Name: "kitchen"}}, nil
}

type stubOrderAPI struct {
	placed  []domain.OrderRequest
	failErr error
}

func (s *stubOrderAPI) PlaceOrder(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	s.placed = append(s.placed, req)
	return &domain.Order{ID: "o1", Status: domain.OrderStatusPending, Total: req.Total}, nil
}

func (s *stubOrderAPI) ListUserOrders(ctx context.Context, token, userID string) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

type stubAuthAPI struct{}

func (s *stubAuthAPI) Register(ctx context.Context, name, email, password string) (*upstream.Credentials, error) {
	return nil, apperrors.ServiceUnavailable("auth service unavailable")
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*upstream.Credentials, error) {
	return nil, apperrors.Unauthorized("invalid credentials")
}

type stubAdminAPI struct{}

func (s *stubAdminAPI) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	return nil, nil
}
func (s *stubAdminAPI) CreateProduct(ctx context.Context, token string, input upstream.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: "p-new"}, nil
}
func (s *stubAdminAPI) UpdateProduct(ctx context.Context, token, id string, input upstream.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: id}, nil
}
func (s *stubAdminAPI) DeleteProduct(ctx context.Context, token, id string) error { return nil }
func (s *stubAdminAPI) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	return nil, nil
}
func (s *stubAdminAPI) CreateCategory(ctx context.Context, token string, input upstream.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: "c-new"}, nil
}
func (s *stubAdminAPI) UpdateCategory(ctx context.Context, token, id string, input upstream.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: id}, nil
}
func (s *stubAdminAPI) DeleteCategory(ctx context.Context, token, id string) error { return nil }
func (s *stubAdminAPI) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	return nil, nil
}
func (s *stubAdminAPI) UpdateOrderStatus(ctx context.Context, token, id, status string) (*domain.Order, error) {
	return &domain.Order{ID: id, Status: status}, nil
}
func (s *stubAdminAPI) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	return nil, nil
}
func (s *stubAdminAPI) SetUserStatus(ctx context.Context, token, id string, active bool) (*domain.User, error) {
	return &domain.User{ID: id, IsActive: active}, nil
}
func (s *stubAdminAPI) GetDashboard(ctx context.Context, token string) (*upstream.Dashboard, error) {
	return &upstream.Dashboard{Products: []domain.Product{{ID: "p1"}}}, nil
}

// ============================================================================
// Test helpers
// ============================================================================

type testServer struct {
	router http.Handler
	mr     *miniredis.Miniredis
	orders *stubOrderAPI
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cartRepo := redisrepo.NewCartRepository(client, time.Hour)
	sessionRepo := redisrepo.NewSessionRepository(client, time.Hour)

	carts := service.NewCartService(cartRepo, logger, time.Hour)
	t.Cleanup(func() { _ = carts.Close(context.Background()) })

	orders := &stubOrderAPI{}
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Mug", Price: 12_99, Stock: 5, Category: "kitchen"},
		"p2": {ID: "p2", Name: "Desk", Price: 150_00, Stock: 3, Category: "office"},
		"p3": {ID: "p3", Name: "Gone", Price: 9_99, Stock: 0},
	}}

	accounts := service.NewAccountService(&stubAuthAPI{}, sessionRepo, logger, testJWTSecret, time.Hour)
	checkout := service.NewCheckoutService(carts, orders, logger)
	admin := service.NewAdminService(&stubAdminAPI{}, logger)

	router := NewRouter(Handlers{
		Cart:     NewCartHandler(carts, catalog, logger),
		Catalog:  NewCatalogHandler(catalog, logger),
		Auth:     NewAuthHandler(accounts, logger),
		Checkout: NewCheckoutHandler(checkout, logger),
		Admin:    NewAdminHandler(admin, logger),
		Accounts: accounts,
		Health:   health.NewHandler(),
	}, RouterConfig{
		CORS:             middleware.DefaultCORSConfig(),
		AuthRateRPS:      100,
		AuthRateBurst:    100,
		CartCookieMaxAge: 3600,
	}, logger)

	return &testServer{router: router, mr: mr, orders: orders}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func withCookie(sid string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CartCookieName, Value: sid})
	}
}

func withToken(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func signTestToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID,
		"name":  "Test User",
		"email": userID + "@example.com",
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Data
}

type cartPayload struct {
	Items      []domain.LineItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice int64             `json:"total_price"`
}

func checkoutBody() map[string]any {
	return map[string]any{
		"payment_method": "card",
		"shipping_address": map[string]string{
			"full_name":   "Jo Bloggs",
			"street":      "1 Main St",
			"city":        "Springfield",
			"postal_code": "12345",
		},
	}
}

// ============================================================================
// Cart flow
// ============================================================================

func TestCart_GetIssuesSessionCookie(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CartCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	cart := decodeData[cartPayload](t, rec)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
}

func TestCart_AddItemResolvesProductServerSide(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p1", "quantity": 2}, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeData[cartPayload](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Mug", cart.Items[0].Name)
	assert.Equal(t, int64(12_99), cart.Items[0].Price)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(25_98), cart.TotalPrice)

	// The cart was written through to storage.
	assert.True(t, ts.mr.Exists("cart:sid-1"))
}

func TestCart_AddItemMergesAndCapsAtStock(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p1", "quantity": 3}, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p1", "quantity": 10}, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeData[cartPayload](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCart_AddUnknownProduct(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "nope", "quantity": 1}, withCookie("sid-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_AddOutOfStockProduct(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p3", "quantity": 1}, withCookie("sid-1"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCart_AddItemValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"quantity": 1}, withCookie("sid-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestCart_UpdateQuantityClamps(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p1", "quantity": 3}, withCookie("sid-1"))

	rec := ts.do(t, http.MethodPut, "/api/v1/cart/items/p1",
		map[string]any{"quantity": 0}, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeData[cartPayload](t, rec)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	rec = ts.do(t, http.MethodPut, "/api/v1/cart/items/p1",
		map[string]any{"quantity": 50}, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decodeData[cartPayload](t, rec)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCart_RemoveAbsentItemIsNoOp(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p1", "quantity": 2}, withCookie("sid-1"))

	rec := ts.do(t, http.MethodDelete, "/api/v1/cart/items/ghost", nil, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeData[cartPayload](t, rec)
	assert.Len(t, cart.Items, 1)
}

func TestCart_Clear(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p1", "quantity": 2}, withCookie("sid-1"))

	rec := ts.do(t, http.MethodDelete, "/api/v1/cart", nil, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeData[cartPayload](t, rec)
	assert.Empty(t, cart.Items)
	assert.False(t, ts.mr.Exists("cart:sid-1"))
}

func TestCart_CorruptStoredDataFallsBackToEmpty(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.mr.Set("cart:sid-1", "{not json"))

	rec := ts.do(t, http.MethodGet, "/api/v1/cart", nil, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeData[cartPayload](t, rec)
	assert.Empty(t, cart.Items)
}

// ============================================================================
// Checkout
// ============================================================================

func TestCheckout_QuoteForGuest(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p1", "quantity": 2}, withCookie("sid-1"))

	rec := ts.do(t, http.MethodGet, "/api/v1/checkout/quote", nil, withCookie("sid-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	quote := decodeData[domain.Quote](t, rec)
	assert.Equal(t, int64(25_98), quote.Subtotal)
	assert.Equal(t, int64(10_00), quote.Shipping)
	assert.Equal(t, int64(2_59), quote.Tax)
	assert.Equal(t, int64(38_57), quote.Total)
}

func TestCheckout_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody(), withCookie("sid-1"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckout_PlaceOrderClearsCart(t *testing.T) {
	ts := newTestServer(t)
	token := signTestToken(t, "u1", domain.RoleCustomer)

	ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p2", "quantity": 1}, withCookie("sid-1"))

	rec := ts.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody(),
		withCookie("sid-1"), withToken(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	order := decodeData[domain.Order](t, rec)
	assert.Equal(t, "o1", order.ID)

	require.Len(t, ts.orders.placed, 1)
	placed := ts.orders.placed[0]
	assert.Equal(t, int64(150_00), placed.Subtotal)
	assert.Equal(t, int64(0), placed.Shipping)
	assert.Equal(t, int64(15_00), placed.Tax)
	assert.Equal(t, int64(165_00), placed.Total)

	cartRec := ts.do(t, http.MethodGet, "/api/v1/cart", nil, withCookie("sid-1"))
	cart := decodeData[cartPayload](t, cartRec)
	assert.Empty(t, cart.Items)
}

func TestCheckout_FailedOrderKeepsCart(t *testing.T) {
	ts := newTestServer(t)
	token := signTestToken(t, "u1", domain.RoleCustomer)

	ts.do(t, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": "p1", "quantity": 2}, withCookie("sid-1"))

	ts.orders.failErr = apperrors.ServiceUnavailable("order service down")
	rec := ts.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody(),
		withCookie("sid-1"), withToken(token))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	cartRec := ts.do(t, http.MethodGet, "/api/v1/cart", nil, withCookie("sid-1"))
	cart := decodeData[cartPayload](t, cartRec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	ts := newTestServer(t)
	token := signTestToken(t, "u1", domain.RoleCustomer)

	rec := ts.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody(),
		withCookie("sid-1"), withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Route guards
// ============================================================================

func TestAdmin_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_RejectsCustomerRole(t *testing.T) {
	ts := newTestServer(t)
	token := signTestToken(t, "u1", domain.RoleCustomer)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, withToken(token))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_AllowsAdminRole(t *testing.T) {
	ts := newTestServer(t)
	token := signTestToken(t, "admin-1", domain.RoleAdmin)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "p1")
}

func TestAdmin_UpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	ts := newTestServer(t)
	token := signTestToken(t, "admin-1", domain.RoleAdmin)

	rec := ts.do(t, http.MethodPut, "/api/v1/admin/orders/o1/status",
		map[string]string{"status": "teleported"}, withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_RejectsForgedToken(t *testing.T) {
	ts := newTestServer(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "role": domain.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, withToken(forged))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MeReturnsUser(t *testing.T) {
	ts := newTestServer(t)
	token := signTestToken(t, "u1", domain.RoleCustomer)

	rec := ts.do(t, http.MethodGet, "/api/v1/auth/me", nil, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code)

	user := decodeData[domain.User](t, rec)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, domain.RoleCustomer, user.Role)
}

// ============================================================================
// Catalog and plumbing
// ============================================================================

func TestCatalog_ListProductsWithFilter(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/products?category=kitchen", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	products := decodeData[[]domain.Product](t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0].Name)
}

func TestHealth_Live(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentType_RejectsNonJSONBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("product_id=p1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: "sid-1"})

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
