package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	cataloghandlers "github.com/marketplace/seller-portal/internal/catalog/api/handlers"
	catalogapp "github.com/marketplace/seller-portal/internal/catalog/application"
	catalogmongo "github.com/marketplace/seller-portal/internal/catalog/infrastructure/mongodb"
	"github.com/marketplace/seller-portal/internal/notify"
	orderhandlers "github.com/marketplace/seller-portal/internal/order/api/handlers"
	orderapp "github.com/marketplace/seller-portal/internal/order/application"
	ordercatalog "github.com/marketplace/seller-portal/internal/order/infrastructure/catalog"
	ordermongo "github.com/marketplace/seller-portal/internal/order/infrastructure/mongodb"
	sellerhandlers "github.com/marketplace/seller-portal/internal/seller/api/handlers"
	sellerapp "github.com/marketplace/seller-portal/internal/seller/application"
	sellermongo "github.com/marketplace/seller-portal/internal/seller/infrastructure/mongodb"
	"github.com/marketplace/seller-portal/pkg/config"
	"github.com/marketplace/seller-portal/pkg/kafka"
	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/metrics"
	"github.com/marketplace/seller-portal/pkg/middleware"
	"github.com/marketplace/seller-portal/pkg/mongodb"
	"github.com/marketplace/seller-portal/pkg/tracing"
)

const serviceName = "seller-portal"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(cfg.Logging.Level)
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting seller-portal API")

	ctx := context.Background()

	// OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	tracingConfig.SampleRate = cfg.Tracing.SampleRate
	tracingConfig.Enabled = cfg.Tracing.Enabled

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))

	// MongoDB with instrumentation
	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = cfg.MongoDB.URI
	mongoConfig.Database = cfg.MongoDB.Database
	mongoConfig.MaxPoolSize = cfg.MongoDB.MaxPoolSize
	mongoConfig.MinPoolSize = cfg.MongoDB.MinPoolSize
	mongoConfig.ReplicaSet = cfg.MongoDB.ReplicaSet

	mongoClient, err := mongodb.NewClient(ctx, mongoConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	instrumentedMongo := mongodb.NewInstrumentedClient(mongoClient, m, logger)
	defer instrumentedMongo.Close(ctx)
	logger.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)

	// Kafka producer, optional
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		kafkaConfig := kafka.DefaultConfig()
		kafkaConfig.Brokers = cfg.Kafka.Brokers
		kafkaConfig.ClientID = cfg.Kafka.ClientID
		producer = kafka.NewProducer(kafkaConfig)
		defer producer.Close()
		logger.Info("Kafka producer initialized", "brokers", cfg.Kafka.Brokers)
	} else {
		logger.Warn("Kafka disabled, events will only reach in-process subscribers")
	}

	// Notification fan-out
	registry := notify.NewSubscriptionRegistry(cfg.Notify.BufferSize, logger, m)
	defer registry.Close()

	var kafkaPublisher notify.KafkaPublisher
	if producer != nil {
		kafkaPublisher = producer
	}
	fanout := notify.NewFanout(registry, kafkaPublisher, logger, m)

	// Repositories
	orderRepo := ordermongo.NewOrderRepository(instrumentedMongo)
	sellerRepo := sellermongo.NewSellerRepository(instrumentedMongo)
	productRepo := catalogmongo.NewProductRepository(instrumentedMongo)
	transactor := ordermongo.NewTransactor(instrumentedMongo)

	// Application services
	catalogService := catalogapp.NewCatalogApplicationService(
		productRepo,
		notify.NewStockDepletedNotifier(fanout, m),
		logger,
	)
	sellerService := sellerapp.NewSellerApplicationService(
		sellerRepo,
		notify.NewSellerEventPublisher(fanout, logger),
		logger,
	)
	orderService := orderapp.NewOrderApplicationService(
		orderRepo,
		fanout,
		ordercatalog.NewGateway(catalogService),
		orderRepo,
		transactor,
		logger,
		m,
	)

	// HTTP surface
	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.TracingMiddleware(middleware.DefaultTracingConfig(serviceName)))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return instrumentedMongo.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	sellerAuth := middleware.SellerAuth(&middleware.SellerAuthConfig{
		Validator: sellerhandlers.NewAuthValidator(sellerService),
	})

	api := router.Group("/api/v1")
	orderhandlers.NewOrderHandler(orderService, logger).RegisterRoutes(api, sellerAuth)
	sellerhandlers.NewSellerHandler(sellerService, logger).RegisterRoutes(api, sellerAuth)
	cataloghandlers.NewProductHandler(catalogService, logger).RegisterRoutes(api, sellerAuth)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", cfg.Server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}
