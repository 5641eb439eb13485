package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/cache"
	"storefront/common/errors"
	"storefront/common/logger"
	"storefront/controllers"
	"storefront/database"
	"storefront/models"
	"storefront/notifier"
	"storefront/repository"
	"storefront/routes"
	"storefront/services"
	"storefront/storage"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Environment)
	defer logger.Log.Sync()

	db, err := database.Connect(
		cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB,
		cfg.PostgresSSLMode, cfg.PostgresTimeZone,
	)
	if err != nil {
		logger.Log.Fatal("Could not connect to PostgreSQL", zap.Error(err))
	}
	logger.Log.Info("Connected to PostgreSQL")

	if err := models.Migrate(db); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	txRunner := repository.NewGormTxRunner(db)

	// Optional product listing cache
	var productCache *cache.ProductCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Invalid Redis URL", zap.Error(err))
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		productCache = cache.NewProductCache(client)
		logger.Log.Info("Connected to Redis")
	}

	// Telegram relay is optional: without both secrets the order flows
	// run with notifications disabled.
	var publisher notifier.Publisher
	if tg, err := notifier.NewTelegramPublisher(cfg.TelegramBotToken, cfg.TelegramChatID); err != nil {
		logger.Log.Info("Telegram not configured, notifications disabled", zap.Error(err))
	} else {
		publisher = tg
	}

	// Optional S3 uploader for product images
	var uploader *storage.Uploader
	if cfg.S3Bucket != "" {
		uploader, err = storage.NewUploader(context.Background(), cfg.S3Bucket, cfg.S3PublicBaseURL)
		if err != nil {
			logger.Log.Fatal("Failed to initialize S3 uploader", zap.Error(err))
		}
	} else {
		logger.Log.Info("S3 not configured, image uploads disabled")
	}

	// Services
	catalogService := services.NewCatalogService(productRepo, productCache)
	checkoutService := services.NewCheckoutService(txRunner, orderRepo)
	orderService := services.NewOrderService(orderRepo, publisher)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userRepo, []byte(cfg.JWTSecret))

	// Controllers
	authController := controllers.NewAuthController(authService)
	productController := controllers.NewProductController(catalogService)
	orderController := controllers.NewOrderController(checkoutService, orderService)
	userController := controllers.NewUserController(userService)
	uploadController := controllers.NewUploadController(uploader)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(errors.ErrorMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, authController, productController, orderController, userController, uploadController, []byte(cfg.JWTSecret))

	logger.Log.Info("Storefront service started", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
