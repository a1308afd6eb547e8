package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agroparts/payment-service/internal/config"
	"github.com/agroparts/payment-service/internal/delivery/http/handlers"
	"github.com/agroparts/payment-service/internal/delivery/http/middleware"
	publisher "github.com/agroparts/payment-service/internal/infrastructure/kafka"
	"github.com/agroparts/payment-service/internal/infrastructure/mailer"
	"github.com/agroparts/payment-service/internal/infrastructure/metrics"
	"github.com/agroparts/payment-service/internal/infrastructure/migrate"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres"
	"github.com/agroparts/payment-service/internal/infrastructure/postgres/repository"
	"github.com/agroparts/payment-service/internal/infrastructure/tjpay"
	"github.com/agroparts/payment-service/internal/usecase/checkout"
	"github.com/agroparts/payment-service/internal/usecase/payment"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.OrderDB.MigrationPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	orderRepo := repository.NewDefaultOrderRepository(db)
	eventRepo := repository.NewDefaultPaymentEventRepository(db)
	cartRepo := repository.NewDefaultCartRepository(db)
	productRepo := repository.NewDefaultProductRepository(db)
	notificationRepo := repository.NewDefaultNotificationRepository(db)
	auditRepo := repository.NewDefaultAuditRepository(db)

	processorClient := tjpay.NewClient(cfg.Processor)
	emailSender := mailer.NewMailer(cfg.Mailer, notificationRepo)
	statusPublisher := publisher.NewDefaultKafkaPublisher([]string{cfg.Kafka.Host + ":" + cfg.Kafka.Port})
	paymentMetrics := metrics.NewPaymentMetrics()

	checkoutUsecase := checkout.NewDefaultCheckoutUsecase(orderRepo, cartRepo, productRepo, auditRepo, cfg.Checkout)
	paymentUsecase := payment.NewDefaultPaymentUsecase(
		orderRepo, eventRepo, cartRepo, notificationRepo, auditRepo,
		processorClient, emailSender, statusPublisher, paymentMetrics, cfg,
	)

	checkoutHandler := handlers.NewCheckoutHandler(checkoutUsecase, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase, logger)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/checkout/validate", checkoutHandler.ValidateCheckout)
		v1.POST("/payments/session", paymentHandler.CreateSession)
		v1.POST("/payments/webhook", paymentHandler.Webhook)
		v1.GET("/orders/:id", paymentHandler.GetOrder)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "payment-service"})
	})

	addr := cfg.HTTPServer.Host + ":" + cfg.HTTPServer.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting http server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
