package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/merakimart/storefront-backend/api/routes"
	"github.com/merakimart/storefront-backend/internal/cart"
	"github.com/merakimart/storefront-backend/internal/checkout"
	"github.com/merakimart/storefront-backend/internal/coupons"
	"github.com/merakimart/storefront-backend/internal/products"
	"github.com/merakimart/storefront-backend/internal/settings"
	"github.com/merakimart/storefront-backend/internal/wishlist"
	"github.com/merakimart/storefront-backend/pkg/config"
	"github.com/merakimart/storefront-backend/pkg/db"
	"github.com/merakimart/storefront-backend/pkg/logger"
	"github.com/merakimart/storefront-backend/pkg/metrics"
	"github.com/merakimart/storefront-backend/pkg/migrate"
	"github.com/merakimart/storefront-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	settingsService, err := settings.NewService(settings.ServiceParams{
		Repo:     settings.NewRepository(dbClient.DB()),
		Cache:    redisClient,
		CacheTTL: cfg.Checkout.SettingsCacheTTL,
		Logger:   logg,
		Metrics:  commerceMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo: wishlist.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cart.NewRepository(dbClient.DB()),
		Products: products.NewRepository(dbClient.DB()),
		Wishlist: wishlistService,
		Metrics:  commerceMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	couponService, err := coupons.NewService(coupons.ServiceParams{
		Repo:     coupons.NewRepository(dbClient.DB()),
		Cache:    redisClient,
		CacheTTL: cfg.Checkout.CouponCacheTTL,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Cart:     cartService,
		Coupons:  couponService,
		Session:  coupons.NewSessionStore(redisClient, cfg.Checkout.AppliedCouponTTL),
		Settings: settingsService,
		Logger:   logg,
		Metrics:  commerceMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Cart:     cartService,
			Checkout: checkoutService,
			Coupons:  couponService,
			Wishlist: wishlistService,
			Settings: settingsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
