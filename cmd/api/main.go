package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pesokrava/storefront/internal/config"
	"github.com/Pesokrava/storefront/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/storefront/internal/delivery/http"
	"github.com/Pesokrava/storefront/internal/delivery/http/handler"
	"github.com/Pesokrava/storefront/internal/delivery/http/middleware"
	"github.com/Pesokrava/storefront/internal/pkg/cache"
	"github.com/Pesokrava/storefront/internal/pkg/database"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/storefront/internal/repository/cache"
	"github.com/Pesokrava/storefront/internal/repository/postgres"
	cartstore "github.com/Pesokrava/storefront/internal/store/cart"
	"github.com/Pesokrava/storefront/internal/store/catalog"
	"github.com/Pesokrava/storefront/internal/usecase/cart"
	"github.com/Pesokrava/storefront/internal/usecase/product"
	"github.com/Pesokrava/storefront/internal/usecase/review"
	"github.com/Pesokrava/storefront/migrations"

	_ "github.com/Pesokrava/storefront/docs"
)

// @title Storefront API
// @version 1.0
// @description Catalog browsing, reviews and cart pricing for an online storefront.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Products
// @tag.description Catalog management and browsing

// @tag.name Reviews
// @tag.description Product reviews and ratings

// @tag.name Cart
// @tag.description Cart lines and totals

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env, logger.WithLevel(cfg.LogLevel))
	logger.SetGlobalLogger(appLogger)
	appLogger.Info("Starting Storefront API...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(ctx, cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, migrations.FS); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}
	appLogger.Info("Connected to PostgreSQL successfully")

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(ctx, cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	if err := events.NewStreamConfig(publisher.JetStream(), appLogger).EnsureStream(); err != nil {
		appLogger.Fatal("Failed to set up JetStream stream", err)
	}

	productRepo := postgres.NewProductRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	redisCache := cacheRepo.NewRedisCache(redisClient, cfg.Cache.CatalogTTL)

	catalogStore := catalog.New()
	cartStore := cartstore.New()

	productService := product.NewService(catalogStore, productRepo, redisCache, publisher, appLogger)
	reviewService := review.NewService(catalogStore, reviewRepo, redisCache, publisher, appLogger)
	cartService := cart.NewService(cartStore, catalogStore, cfg.Pricing.Rules(), appLogger)

	// A failed initial load is reported through /api/v1/status and can be
	// retried with /api/v1/catalog/reload.
	if err := productService.Load(ctx); err != nil {
		appLogger.Warnf("Initial catalog load failed: %v", err)
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	go limiter.Run(ctx, time.Minute, 3*time.Minute)

	router := httpDelivery.NewRouter(httpDelivery.Handlers{
		Product: handler.NewProductHandler(productService, appLogger),
		Review:  handler.NewReviewHandler(reviewService, appLogger),
		Browse:  handler.NewBrowseHandler(productService, appLogger),
		Cart:    handler.NewCartHandler(cartService, appLogger),
	}, limiter, cfg, appLogger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
		return
	}

	appLogger.Info("Server stopped gracefully")
}
