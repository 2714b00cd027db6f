package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/suitloom/suitloom-backend/config"
	"github.com/suitloom/suitloom-backend/internal/app/controller"
	"github.com/suitloom/suitloom-backend/internal/app/repository"
	"github.com/suitloom/suitloom-backend/internal/app/service"
	"github.com/suitloom/suitloom-backend/internal/catalog"
	"github.com/suitloom/suitloom-backend/internal/db"
	"github.com/suitloom/suitloom-backend/internal/middleware"
	"github.com/suitloom/suitloom-backend/internal/router"
	"github.com/suitloom/suitloom-backend/internal/scheduler"
	"github.com/suitloom/suitloom-backend/internal/storage"
	"github.com/suitloom/suitloom-backend/internal/websocket"
	"github.com/suitloom/suitloom-backend/pkg/imagepipe"
	"github.com/suitloom/suitloom-backend/pkg/logger"
	"github.com/suitloom/suitloom-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SUITLOOM Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
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

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (preview mirror channel)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()
	mirrors := redis.NewMirrorStore(redis.GetClient(), cfg.Configurator.MirrorTTL)

	// Pick upload storage: S3 when credentials are present, local disk otherwise
	var store storage.Storage
	if cfg.S3.AccessKeyID != "" {
		store = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
		logger.Info("Using S3 storage", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"region": cfg.S3.Region,
		})
	} else {
		localStore, err := storage.NewLocalStorage(cfg.S3.LocalDir)
		if err != nil {
			logger.Fatal("Failed to initialize local storage", err)
		}
		store = localStore
		logger.Info("Using local storage", map[string]interface{}{
			"dir": cfg.S3.LocalDir,
		})
	}

	// Image pipeline client (background removal + compositing)
	pipeline, err := imagepipe.NewClient(imagepipe.Config{
		BaseURL:        cfg.ImagePipe.BaseURL,
		APIKey:         cfg.ImagePipe.APIKey,
		RequestTimeout: cfg.ImagePipe.RequestTimeout,
	})
	if err != nil {
		logger.Fatal("Failed to initialize image pipeline client", err)
	}

	// WebSocket hub for pipeline event push
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	snapshotRepo := repository.NewSnapshotRepository(db.GetDB())
	measurementRepo := repository.NewMeasurementRepository(db.GetDB())

	// Initialize services
	garmentCatalog := catalog.Default()
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	configuratorService := service.NewConfiguratorService(
		garmentCatalog,
		snapshotRepo,
		measurementRepo,
		mirrors,
		pipeline,
		store,
		hub,
		cfg.Configurator.SummaryCategories...,
	)
	orderService := service.NewOrderService(orderRepo, configuratorService)
	exportService := service.NewExportService(orderRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	catalogController := controller.NewCatalogController(garmentCatalog)
	configuratorController := controller.NewConfiguratorController(configuratorService)
	orderController := controller.NewOrderController(orderService)
	adminController := controller.NewAdminController(orderService, exportService)
	wsController := controller.NewWSController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		catalogController,
		configuratorController,
		orderController,
		adminController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start stale snapshot cleanup scheduler
	cleanupScheduler := scheduler.NewSnapshotCleanupScheduler(snapshotRepo, cfg.Configurator.SnapshotRetention)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start snapshot cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
