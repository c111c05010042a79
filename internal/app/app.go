package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harith2255/ecommerce-frontend/internal/config"
	handler "github.com/harith2255/ecommerce-frontend/internal/handler/http"
	redisrepo "github.com/harith2255/ecommerce-frontend/internal/repository/redis"
	"github.com/harith2255/ecommerce-frontend/internal/service"
	"github.com/harith2255/ecommerce-frontend/internal/upstream"
	"github.com/harith2255/ecommerce-frontend/pkg/health"
	"github.com/harith2255/ecommerce-frontend/pkg/httpclient"
	"github.com/harith2255/ecommerce-frontend/pkg/middleware"
	"github.com/harith2255/ecommerce-frontend/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	carts           *service.CartService
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Tracing.
	tracingCfg := tracing.DefaultConfig("storefront")
	tracingCfg.Enabled = cfg.TracingEnabled
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.TracingEndpoint
	tracingCfg.SampleRate = cfg.TracingSample
	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Outbound client for the platform API, retrying behind a circuit breaker.
	breakerCfg := httpclient.DefaultCircuitBreakerConfig("platform-api")
	breakerCfg.MinRequests = cfg.BreakerMinRequests
	breakerCfg.Timeout = time.Duration(cfg.BreakerTimeoutSecs) * time.Second
	breakerCfg.Interval = time.Duration(cfg.BreakerIntervalSecs) * time.Second
	doer := httpclient.NewCircuitBreakerClient(httpclient.New(httpclient.DefaultConfig()), breakerCfg, logger)

	base := upstream.NewClient(cfg.APIBaseURL, doer)
	catalog := upstream.NewCatalogClient(base)
	auth := upstream.NewAuthClient(base)
	orders := upstream.NewOrderClient(base)
	admin := upstream.NewAdminClient(base)

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Hour
	cartRepo := redisrepo.NewCartRepository(rdb, cartTTL)
	sessionRepo := redisrepo.NewSessionRepository(rdb, sessionTTL)

	carts := service.NewCartService(cartRepo, logger, cartTTL)
	accounts := service.NewAccountService(auth, sessionRepo, logger, cfg.JWTSecret, sessionTTL)
	checkout := service.NewCheckoutService(carts, orders, logger)
	adminSvc := service.NewAdminService(admin, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.Handlers{
		Cart:     handler.NewCartHandler(carts, catalog, logger),
		Catalog:  handler.NewCatalogHandler(catalog, logger),
		Auth:     handler.NewAuthHandler(accounts, logger),
		Checkout: handler.NewCheckoutHandler(checkout, logger),
		Admin:    handler.NewAdminHandler(adminSvc, logger),
		Accounts: accounts,
		Health:   healthHandler,
	}, handler.RouterConfig{
		CORS:             corsCfg,
		AuthRateRPS:      cfg.AuthRateRPS,
		AuthRateBurst:    cfg.AuthRateBurst,
		PprofCIDRs:       cfg.PprofAllowedCIDRs,
		CartCookieMaxAge: int(cartTTL.Seconds()),
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		carts:           carts,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Flush dirty carts before the Redis connection goes away.
	if err := a.carts.Close(shutdownCtx); err != nil {
		a.logger.Error("cart flush error", slog.String("error", err.Error()))
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("shutdown complete")
	return nil
}
