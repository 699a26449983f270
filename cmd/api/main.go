package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/geolex-tech/storefront-backend/api/routes"
	authsvc "github.com/geolex-tech/storefront-backend/internal/auth"
	cartsvc "github.com/geolex-tech/storefront-backend/internal/cart"
	checkoutsvc "github.com/geolex-tech/storefront-backend/internal/checkout"
	ordersvc "github.com/geolex-tech/storefront-backend/internal/orders"
	productsvc "github.com/geolex-tech/storefront-backend/internal/products"
	usersvc "github.com/geolex-tech/storefront-backend/internal/users"
	"github.com/geolex-tech/storefront-backend/pkg/auth/session"
	"github.com/geolex-tech/storefront-backend/pkg/config"
	"github.com/geolex-tech/storefront-backend/pkg/db"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/geolex-tech/storefront-backend/pkg/metrics"
	"github.com/geolex-tech/storefront-backend/pkg/migrate"
	"github.com/geolex-tech/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	transformer := productsvc.NewTransformer(logg, cfg.Storefront)
	productService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()), transformer)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	snapshots, err := cartsvc.NewRedisSnapshots(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart snapshots", err)
		os.Exit(1)
	}
	cartManager, err := cartsvc.NewManager(snapshots, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	userRepo := usersvc.NewRepository(dbClient.DB())
	userService, err := usersvc.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(dbClient, ordersvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(
		dbClient,
		userRepo,
		authsvc.NewResetRepository(dbClient.DB()),
		sessionManager,
		cfg.JWT,
		cfg.Password,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	authenticator, err := checkoutsvc.NewSessionAuthenticator(sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout authenticator", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(authenticator, userService, orderService, cartManager, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Auth:        authService,
			Products:    productService,
			Carts:       cartManager,
			Users:       userService,
			Orders:      orderService,
			Checkout:    checkoutService,
			HTTPMetrics: httpMetrics,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
