package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront-service/internal/config"
	"storefront-service/internal/events"
	"storefront-service/internal/gateway"
	"storefront-service/internal/handlers"
	"storefront-service/internal/middleware"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
	"storefront-service/internal/services"
)

// @title Storefront Service API
// @version 1.0
// @description Checkout, payment and order lifecycle service
// @BasePath /api/v1
func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	db, err := connectDatabase(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	redisClient := connectRedis(cfg.App.RedisURL, logger)
	publisher := events.NewPublisher(cfg.App.NATSURL, logger)
	defer publisher.Close()

	if err := repository.SeedPaymentMethods(db, logger); err != nil {
		logger.WithError(err).Fatal("Failed to seed payment methods")
	}
	if cfg.App.SeedDefaultShippingZone {
		if err := repository.SeedShippingZones(db, logger); err != nil {
			logger.WithError(err).Fatal("Failed to seed shipping zones")
		}
	}

	// Repositories
	orderRepo := repository.NewOrderRepository(db, redisClient)
	couponRepo := repository.NewCouponRepository(db)
	shippingRepo := repository.NewShippingRepository(db)
	configRepo := repository.NewPaymentConfigRepository(db)
	cartStore := repository.NewCartStore(redisClient)

	// Services
	pricing := services.NewPricingService()
	shippingSvc := services.NewShippingService(shippingRepo, logger)
	couponSvc := services.NewCouponService(couponRepo, orderRepo, pricing, logger)
	gateways := gateway.NewRegistry(cfg.Gateways, logger)
	checkoutSvc := services.NewCheckoutService(
		orderRepo, configRepo, cartStore,
		couponSvc, shippingSvc, pricing,
		gateways, publisher, cfg.App, logger,
	)
	orderSvc := services.NewOrderService(orderRepo, publisher, logger)
	documentSvc := services.NewDocumentService("Storefront", logger)

	// Handlers
	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc, configRepo, cartStore, logger)
	orderHandler := handlers.NewOrderHandler(orderSvc, documentSvc, logger)
	couponHandler := handlers.NewCouponHandler(couponSvc, logger)
	shippingHandler := handlers.NewShippingHandler(shippingSvc, logger)
	paymentHandler := handlers.NewPaymentHandler(orderSvc, gateways, logger)
	healthHandler := handlers.NewHealthHandler(db)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(splitOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))),
	)

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")

	// Storefront surface: guest-friendly, customer token optional
	storefront := api.Group("/storefront")
	storefront.Use(middleware.OptionalCustomerAuth(cfg.App.JWTSecret))
	{
		storefront.POST("/checkout", checkoutHandler.Checkout)
		storefront.POST("/checkout/capture", checkoutHandler.CapturePayment)
		storefront.GET("/cart/:cartId", checkoutHandler.GetCart)
		storefront.PUT("/cart/:cartId", checkoutHandler.SaveCart)
		storefront.GET("/payment-methods", checkoutHandler.ListPaymentMethods)
		storefront.POST("/coupons/validate", couponHandler.Validate)
		storefront.GET("/shipping/zones", shippingHandler.ListZones)
		storefront.GET("/orders/:orderNumber", orderHandler.Track)
	}

	api.POST("/payments/callback/:orderNumber", paymentHandler.Callback)

	// Admin surface: staff token required
	admin := api.Group("")
	admin.Use(middleware.StaffAuth(cfg.App.JWTSecret))
	{
		admin.GET("/orders", orderHandler.List)
		admin.GET("/orders/export", orderHandler.Export)
		admin.GET("/orders/:id", orderHandler.Get)
		admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
		admin.PUT("/orders/:id/payment-status", orderHandler.UpdatePaymentStatus)
		admin.POST("/orders/:id/cancel", orderHandler.Cancel)
		admin.DELETE("/orders/:id", orderHandler.Delete)
		admin.POST("/orders/bulk/status", orderHandler.BulkUpdateStatus)
		admin.POST("/orders/bulk/delete", orderHandler.BulkDelete)
		admin.POST("/orders/bulk/documents", orderHandler.BulkDocuments)
		admin.GET("/orders/:id/invoice", orderHandler.Invoice)
		admin.GET("/orders/:id/packing-slip", orderHandler.PackingSlip)
		admin.GET("/orders/:id/shipping-label", orderHandler.ShippingLabel)

		admin.POST("/coupons", couponHandler.Create)
		admin.GET("/coupons", couponHandler.List)
		admin.GET("/coupons/:id", couponHandler.Get)
		admin.PUT("/coupons/:id", couponHandler.Update)
		admin.DELETE("/coupons/:id", couponHandler.Delete)
		admin.GET("/coupons/:id/usage", couponHandler.Usage)

		admin.GET("/shipping/zones", shippingHandler.ListAllZones)
		admin.POST("/shipping/zones", shippingHandler.CreateZone)
		admin.PUT("/shipping/zones/:id", shippingHandler.UpdateZone)
		admin.DELETE("/shipping/zones/:id", shippingHandler.DeleteZone)
		admin.POST("/shipping/zones/:id/rates", shippingHandler.CreateRate)
		admin.DELETE("/shipping/rates/:rateId", shippingHandler.DeleteRate)
	}

	server := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	go func() {
		logger.WithField("address", server.Addr).Info("Storefront service starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
	logger.Info("Server stopped")
}

func connectDatabase(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), gormCfg)
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Order{},
		&models.OrderLineItem{},
		&models.OrderCustomer{},
		&models.OrderShipping{},
		&models.OrderTimeline{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.ShippingZone{},
		&models.ShippingRate{},
		&models.PaymentMethodConfig{},
	)
	if err != nil {
		return nil, err
	}

	logger.Info("Database connected and migrated")
	return db, nil
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// service runs without caching or server-side carts in that case.
func connectRedis(redisURL string, logger *logrus.Logger) *redis.Client {
	if redisURL == "" {
		logger.Warn("Redis not configured, caching and server-side carts disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid Redis URL, caching disabled")
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, caching disabled")
		return nil
	}

	logger.Info("Connected to Redis")
	return client
}

func splitOrigins(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
