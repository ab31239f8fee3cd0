package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ggmarket/internal/config"
	"ggmarket/internal/handlers"
	"ggmarket/internal/middleware"
	"ggmarket/internal/repositories/mongodb"
	"ggmarket/internal/services"
	"ggmarket/internal/utils"
	"ggmarket/pkg/cache"
	"ggmarket/pkg/database"
	"ggmarket/pkg/logger"
	"ggmarket/pkg/notify"
	"ggmarket/pkg/payment"
	"ggmarket/pkg/storage"
	"ggmarket/pkg/websocket"
	"ggmarket/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Data stores.
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// External providers.
	s3Storage, err := storage.NewAWSS3Storage(cfg.Storage.Region, cfg.Storage.Bucket, cfg.Storage.CDNDomain)
	if err != nil {
		appLogger.Fatalf("Failed to initialize S3 storage: %v", err)
	}

	stripeProvider := payment.NewStripeProvider(cfg.Payment.StripeSecretKey)

	var publisher notify.Publisher
	if cfg.Notify.Enabled {
		snsPublisher, err := notify.NewAWSSNSPublisher(cfg.Notify.Region, cfg.Notify.TopicARN)
		if err != nil {
			appLogger.Fatalf("Failed to initialize SNS publisher: %v", err)
		}
		publisher = snsPublisher
	}

	wsHandler := websocket.NewHandler()

	// Repositories.
	userRepo := mongodb.NewUserRepository(db.Database)
	reviewRepo := mongodb.NewReviewRepository(db.Database)
	ticketRepo := mongodb.NewTicketRepository(db.Database)
	productRepo := mongodb.NewProductRepository(db.Database, redisCache)
	transactionRepo := mongodb.NewTransactionRepository(db.Database)

	// Services.
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, appLogger)
	reviewService := services.NewReviewService(reviewRepo, transactionRepo, userRepo, redisCache, publisher, appLogger)
	ticketService := services.NewTicketService(ticketRepo, userRepo, wsHandler, publisher, appLogger)
	productService := services.NewProductService(productRepo, userRepo, s3Storage, appLogger)
	transactionService := services.NewTransactionService(transactionRepo, productRepo, userRepo, stripeProvider, publisher, appLogger)

	// Handlers.
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	reviewHandler := handlers.NewReviewHandler(reviewService, appLogger)
	ticketHandler := handlers.NewTicketHandler(ticketService, appLogger)
	productHandler := handlers.NewProductHandler(productService, appLogger)
	transactionHandler := handlers.NewTransactionHandler(transactionService, appLogger)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	jwtSecret := cfg.Security.JWTSecret

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, jwtSecret)
		routes.SetupReviewRoutes(v1, reviewHandler, jwtSecret)
		routes.SetupTicketRoutes(v1, ticketHandler, jwtSecret)
		routes.SetupProductRoutes(v1, productHandler, jwtSecret)
		routes.SetupTransactionRoutes(v1, transactionHandler, jwtSecret)
		routes.SetupWebSocketRoutes(v1, wsHandler, jwtSecret)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": utils.AppVersion,
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	appLogger.Infof("Starting %s on %s", cfg.App.Name, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}
