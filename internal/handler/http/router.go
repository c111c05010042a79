package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harith2255/ecommerce-frontend/internal/service"
	"github.com/harith2255/ecommerce-frontend/pkg/health"
	"github.com/harith2255/ecommerce-frontend/pkg/middleware"
)

// RouterConfig carries the router's tunables.
type RouterConfig struct {
	CORS             middleware.CORSConfig
	AuthRateRPS      int
	AuthRateBurst    int
	PprofCIDRs       []string
	CartCookieMaxAge int
}

// Handlers groups the storefront's HTTP handlers for route registration.
type Handlers struct {
	Cart     *CartHandler
	Catalog  *CatalogHandler
	Auth     *AuthHandler
	Checkout *CheckoutHandler
	Admin    *AdminHandler
	Accounts *service.AccountService
	Health   *health.Handler
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(h Handlers, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", h.Health.LivenessHandler())
	r.Get("/health/ready", h.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	requireAuth := RequireAuth(h.Accounts)
	cartSession := CartSession(cfg.CartCookieMaxAge)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public catalog
		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/{productID}", h.Catalog.GetProduct)
		r.Get("/categories", h.Catalog.ListCategories)

		// Auth, rate limited against credential stuffing
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AuthRateRPS, cfg.AuthRateBurst, logger))
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.With(requireAuth).Get("/me", h.Auth.Me)
		})

		// Cart, available to guests via the session cookie
		r.Route("/cart", func(r chi.Router) {
			r.Use(cartSession)
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productID}", h.Cart.UpdateItemQuantity)
			r.Delete("/items/{productID}", h.Cart.RemoveItem)
		})

		// Checkout: quoting is open, placing an order needs an account
		r.Route("/checkout", func(r chi.Router) {
			r.Use(cartSession)
			r.Get("/quote", h.Checkout.Quote)
			r.With(requireAuth).Post("/", h.Checkout.PlaceOrder)
		})

		r.With(requireAuth).Get("/orders", h.Checkout.ListOrders)

		// Admin console
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(RequireAdmin)

			r.Get("/dashboard", h.Admin.Dashboard)

			r.Get("/products", h.Admin.ListProducts)
			r.Post("/products", h.Admin.CreateProduct)
			r.Put("/products/{productID}", h.Admin.UpdateProduct)
			r.Delete("/products/{productID}", h.Admin.DeleteProduct)

			r.Get("/categories", h.Admin.ListCategories)
			r.Post("/categories", h.Admin.CreateCategory)
			r.Put("/categories/{categoryID}", h.Admin.UpdateCategory)
			r.Delete("/categories/{categoryID}", h.Admin.DeleteCategory)

			r.Get("/orders", h.Admin.ListOrders)
			r.Put("/orders/{orderID}/status", h.Admin.UpdateOrderStatus)

			r.Get("/users", h.Admin.ListUsers)
			r.Put("/users/{userID}/status", h.Admin.SetUserStatus)
		})
	})

	return r
}
