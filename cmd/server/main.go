package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/beautycart-backend/config"
	"github.com/ikkim/beautycart-backend/internal/app/controller"
	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/internal/db"
	"github.com/ikkim/beautycart-backend/internal/middleware"
	"github.com/ikkim/beautycart-backend/internal/router"
	"github.com/ikkim/beautycart-backend/internal/scheduler"
	"github.com/ikkim/beautycart-backend/internal/storage"
	"github.com/ikkim/beautycart-backend/internal/websocket"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"github.com/ikkim/beautycart-backend/pkg/mq"
	"github.com/ikkim/beautycart-backend/pkg/redis"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting Beautycart Backend Server", map[string]interface{}{
		"environment":   cfg.Server.Environment,
		"port":          cfg.Server.Port,
		"log_level":     cfg.Log.Level,
		"session_store": cfg.Session.Store,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs session revocation, and the session store when selected.
	if err := redis.Init(&cfg.Redis); err != nil {
		if cfg.Session.Store == "redis" {
			logger.Fatal("Failed to connect to Redis", err)
		}
		logger.Warn("Redis unavailable, session revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	var sessionRepo repository.SessionRepository
	if cfg.Session.Store == "redis" {
		sessionRepo = repository.NewRedisSessionRepository(redis.GetClient(), cfg.Session.IdleTTL)
	} else {
		sessionRepo = repository.NewSessionRepository(db.GetDB())
	}
	orderRepo := repository.NewOrderRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())

	// Live session events
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Order events
	var publisher service.OrderPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := mq.NewOrderProducer(mq.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("Failed to close Kafka producer", err)
			}
		}()
		publisher = producer
		logger.Info("Kafka order events enabled", map[string]interface{}{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		})
	}

	// Export archive storage
	var archive service.ObjectStorage
	if cfg.S3.Enabled() {
		archive = storage.NewS3Storage(storage.Options{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			BaseURL:         cfg.S3.BaseURL,
			Endpoint:        cfg.S3.Endpoint,
		})
	}

	// Initialize services
	pricing := checkout.Pricing{
		TaxRate:               decimal.NewFromFloat(cfg.Pricing.TaxRate),
		ShippingFee:           decimal.NewFromFloat(cfg.Pricing.ShippingFee),
		FreeShippingThreshold: decimal.NewFromFloat(cfg.Pricing.FreeShippingThreshold),
	}
	store := service.NewSessionStore(sessionRepo, orderRepo, pricing)
	if cfg.Session.Store != "redis" {
		store.WithTransactor(repository.NewTransactor(db.GetDB()))
	}
	cartService := service.NewCartService(store, favoriteRepo, hub)
	orderService := service.NewOrderService(store, orderRepo, hub, publisher)
	addressService := service.NewAddressService(addressRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo)
	exportService := service.NewExportService(orderService, archive, cfg.S3.PresignExpiry, func() string {
		return storage.ObjectKey(service.ExportKeyFolder, ".xlsx")
	})

	// Idle session purge
	purger := scheduler.NewSessionPurgeScheduler(cartService, cfg.Session.PurgeSpec, cfg.Session.IdleTTL, cfg.Session.PurgeBatch)
	if err := purger.Start(); err != nil {
		logger.Fatal("Failed to start session purge scheduler", err)
	}
	defer purger.Stop()

	// Initialize controllers
	sessionController := controller.NewSessionController(cartService, cfg.Session.TokenSecret, cfg.Session.TokenExpiry)
	cartController := controller.NewCartController(cartService)
	couponController := controller.NewCouponController(cartService)
	orderController := controller.NewOrderController(orderService, exportService)
	addressController := controller.NewAddressController(addressService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	wsController := controller.NewWSController(hub, cfg.CORS.AllowedOrigins)

	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session.TokenSecret)

	r := router.NewRouter(
		sessionController,
		cartController,
		couponController,
		orderController,
		addressController,
		favoriteController,
		wsController,
		sessionMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
