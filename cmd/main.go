package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admin_console/config"
	"admin_console/internal/clients"
	"admin_console/internal/delivery"
	grpcHandler "admin_console/internal/delivery/grpc"
	"admin_console/internal/metrics"
	"admin_console/internal/middleware"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	logger := setupLogger("info")

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logger.GetLevel())
	} else {
		logger.SetLevel(logLevel)
	}
	logger.Info("Starting Admin Console...")

	// --- Observability ---
	gatewayMetrics := metrics.NewGatewayMetrics()
	healthReporter := grpcHandler.NewHealthReporter(logger, clients.ServiceCatalog, clients.ServiceOrders)
	observer := clients.WithObserver(clients.Observers{gatewayMetrics, healthReporter})

	// --- Dependency Injection ---
	catalogClient := clients.NewCatalogHTTPClient(cfg.CatalogServiceURL, cfg.GatewayTimeout, logger, observer)
	logger.Infof("Catalog Service Client initialized for target: %s", cfg.CatalogServiceURL)
	orderClient := clients.NewOrderHTTPClient(cfg.OrderServiceURL, cfg.GatewayTimeout, logger, observer)
	logger.Infof("Order Service Client initialized for target: %s", cfg.OrderServiceURL)

	feed := delivery.NewNotificationFeed(delivery.DefaultFeedSize, logger)
	catalogSession := usecase.NewCatalogSession(catalogClient, feed, usecase.CatalogOptions{
		PageSize:          cfg.CatalogPageSize,
		ReloadOnCancel:    cfg.CatalogReloadOnCancel,
		ResetPageOnFilter: cfg.CatalogResetPageOnFilter,
		UploadConcurrency: cfg.UploadConcurrency,
		IDSeed:            cfg.ProductIDSeed,
	}, logger)
	orderSession := usecase.NewOrderSession(orderClient, feed, logger)
	logger.Info("Sessions initialized.")

	// Initial loads are best effort; the console can reload once the stores come up.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*cfg.GatewayTimeout)
	if err := catalogSession.Reload(loadCtx); err != nil {
		logger.Warnf("Initial product load failed: %v", err)
	}
	if err := orderSession.Refresh(loadCtx); err != nil {
		logger.Warnf("Initial order load failed: %v", err)
	}
	cancelLoad()

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	delivery.RegisterSystemRoutes(router, gatewayMetrics.Handler())
	feed.RegisterRoutes(router)
	delivery.NewCatalogHandler(catalogSession, logger).RegisterRoutes(router)
	delivery.NewOrderHandler(orderSession, logger).RegisterRoutes(router)
	logger.Info("Routes registered.")

	// --- gRPC health ---
	lis, err := net.Listen("tcp", cfg.GrpcHealthPort)
	if err != nil {
		logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcHealthPort, err)
	}
	grpcServer := grpc.NewServer()
	healthReporter.Register(grpcServer)
	reflection.Register(grpcServer)
	go func() {
		logger.Infof("gRPC health server listening on %s", cfg.GrpcHealthPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	// --- Start Server ---
	srv := &http.Server{
		Addr:    cfg.ConsolePort,
		Handler: router,
	}
	go func() {
		logger.Infof("Starting server on port %s", cfg.ConsolePort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server on port %s: %v", cfg.ConsolePort, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Warn("Shutdown signal received...")

	healthReporter.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server shutdown failed: %v", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Admin Console shut down gracefully.")
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}
