package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/forever/internal"
	"github.com/dukerupert/forever/internal/events"
	"github.com/dukerupert/forever/internal/handler"
	"github.com/dukerupert/forever/internal/handler/api"
	"github.com/dukerupert/forever/internal/media"
	"github.com/dukerupert/forever/internal/middleware"
	"github.com/dukerupert/forever/internal/router"
	"github.com/dukerupert/forever/internal/routes"
	"github.com/dukerupert/forever/internal/service"
	"github.com/dukerupert/forever/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	flushSentry, err := telemetry.InitSentry(cfg.Sentry, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	telemetry.InitBusinessMetrics("forever")

	st, err := openStores(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer st.close()
	logger.Info("Database connection established", "driver", cfg.Database.Driver)

	host, err := media.New(ctx, cfg.Media)
	if err != nil {
		return fmt.Errorf("failed to initialize media host: %w", err)
	}
	logger.Info("Media host initialized", "provider", cfg.Media.Provider)

	var publisher events.Publisher = events.Noop{}
	if cfg.NatsURL != "" {
		nc, err := events.Connect(cfg.NatsURL)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer nc.Close()
		publisher = nc
		logger.Info("Event publisher connected", "url", cfg.NatsURL)
	}

	// Initialize services
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	cartService := service.NewCartService(st.products, st.users, publisher, logger)
	productService := service.NewProductService(st.products, host, publisher, logger)
	userService := service.NewUserService(st.users, tokens, service.AdminCredentials{
		Email:    cfg.Auth.AdminEmail,
		Password: cfg.Auth.AdminPassword,
	}, logger)

	rs := handler.NewResponder(cfg.IsDev(), logger)

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("forever", nil)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.IsDev() {
		securityConfig.HSTSMaxAge = 0
	}

	defaultLimiterConfig := middleware.DefaultRateLimiterConfig()
	defaultLimiterConfig.OnError = rs.Error
	defaultRateLimiter := middleware.NewRateLimiter(defaultLimiterConfig)
	defer defaultRateLimiter.Stop()

	authLimiter, closeAuthLimiter, err := newAuthLimiter(ctx, cfg.RedisURL, rs.Error, logger)
	if err != nil {
		return err
	}
	defer closeAuthLimiter()

	auth := routes.AuthDeps{
		RequireUser:  middleware.RequireUser(tokens, rs.Error),
		RequireAdmin: middleware.RequireAdmin(rs.Error),
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger, rs.Error),
		middleware.RequestID,
		metrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize, rs.Error),
		defaultRateLimiter.Middleware,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
		router.CORS(cfg.CORSOrigins),
	)

	uploadsDir := ""
	if cfg.Media.Provider == "local" || cfg.Media.Provider == "" {
		uploadsDir = cfg.Media.LocalPath
	}

	routes.RegisterSystemRoutes(r, routes.SystemDeps{
		Metrics: metrics.Handler(),
		Health: func(w http.ResponseWriter, req *http.Request) {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := st.ping(ctx); err != nil {
				middleware.GetLogger(req.Context(), logger).Error("health check failed", "error", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		},
		UploadsDir:    uploadsDir,
		UploadsPrefix: cfg.Media.LocalURL + "/",
		NotFound:      rs.NotFound,
	})
	routes.RegisterUserRoutes(r, routes.UserDeps{
		Handler: api.NewUserHandler(userService, rs),
		Limiter: authLimiter,
	})
	routes.RegisterProductRoutes(r, routes.ProductDeps{
		Handler:          api.NewProductHandler(productService, rs),
		Auth:             auth,
		AddRequiresAdmin: cfg.Auth.ProductAddRequiresAdmin,
	})
	routes.RegisterCartRoutes(r, routes.CartDeps{
		Handler: api.NewCartHandler(cartService, rs),
		Auth:    auth,
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newAuthLimiter returns the limiter for the sign-in endpoints: shared
// through Redis when REDIS_URL is set, in memory otherwise.
func newAuthLimiter(ctx context.Context, redisURL string, onError middleware.ErrorFunc, logger *slog.Logger) (router.Middleware, func(), error) {
	if redisURL == "" {
		config := middleware.StrictRateLimiterConfig()
		config.OnError = onError
		limiter := middleware.NewRateLimiter(config)
		return limiter.Middleware, limiter.Stop, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("Auth rate limiter backed by Redis")

	config := middleware.DefaultRedisRateLimiterConfig()
	config.OnError = onError
	limiter := middleware.NewRedisRateLimiter(client, config)
	return limiter.Middleware, func() { _ = client.Close() }, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
