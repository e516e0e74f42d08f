package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	echoSwagger "github.com/swaggo/echo-swagger"

	"scentlab/internal/analytics"
	"scentlab/internal/caching"
	"scentlab/internal/handlers"
	"scentlab/internal/jobs/background"
	"scentlab/internal/middleware"
	"scentlab/internal/models"
	"scentlab/internal/repositories"
	"scentlab/internal/services"
	"scentlab/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	imageBucket := os.Getenv("MINIO_BUCKET")
	if imageBucket == "" {
		imageBucket = "scentlab-images"
	}

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), imageBucket); err != nil {
		log.Printf("WARNING: failed to ensure image bucket %s: %v", imageBucket, err)
	}

	// Create repositories
	productRepo := repositories.NewProductRepository(pool)
	productImageRepo := repositories.NewProductImageRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	orderItemRepo := repositories.NewOrderItemRepository(pool)
	blogRepo := repositories.NewBlogRepository(pool)
	feedbackRepo := repositories.NewFeedbackRepository(pool)
	customerNoteRepo := repositories.NewCustomerNoteRepository(pool)
	adminUserRepo := repositories.NewAdminUserRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	productSvc := services.NewProductService(productRepo, productImageRepo, cacheSvc)
	orderSvc := services.NewOrderService(database.NewTxManager(pool), orderRepo, orderItemRepo, productRepo)
	blogSvc := services.NewBlogService(blogRepo, cacheSvc)
	feedbackSvc := services.NewFeedbackService(feedbackRepo)
	noteSvc := services.NewCustomerNoteService(customerNoteRepo)
	authSvc := services.NewAuthService(adminUserRepo, jwtSecret)
	dashboardSvc := analytics.NewDashboardService(orderRepo, productRepo, feedbackRepo, cacheSvc)

	// Create handlers
	orderHandlers := handlers.NewOrderHandlers(orderSvc, minioSvc, imageBucket)
	productHandlers := handlers.NewProductHandlers(productSvc, minioSvc, imageBucket)
	categoryHandlers := handlers.NewCategoryHandlers(categoryRepo)
	blogHandlers := handlers.NewBlogHandlers(blogSvc)
	feedbackHandlers := handlers.NewFeedbackHandlers(feedbackSvc)
	noteHandlers := handlers.NewCustomerNoteHandlers(noteSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc, adminUserRepo)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(dashboardSvc, productRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, pool)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	v1 := e.Group("/v1")

	// Storefront routes (no auth)
	v1.POST("/orders", orderHandlers.PlaceOrder)
	v1.GET("/orders/:orderNumber", orderHandlers.GetOrder)
	v1.GET("/orders", orderHandlers.ListOrders)
	v1.GET("/products", productHandlers.ListProducts)
	v1.GET("/products/:slug", productHandlers.GetProduct)
	v1.GET("/categories", categoryHandlers.ListCategories)
	v1.GET("/blog", blogHandlers.ListPosts)
	v1.GET("/blog/:slug", blogHandlers.GetPost)
	v1.POST("/feedback", feedbackHandlers.SubmitFeedback)

	// Authentication routes
	v1.POST("/auth/login", authHandlers.Login)

	// Back-office routes (require JWT)
	admin := v1.Group("/admin")
	admin.Use(middleware.JWTMiddleware(jwtSecret))

	admin.GET("/me", authHandlers.Me)
	admin.GET("/dashboard", dashboardHandlers.GetStats)

	admin.POST("/products", productHandlers.CreateProduct)
	admin.PUT("/products/:id", productHandlers.UpdateProduct)
	admin.DELETE("/products/:id", productHandlers.DeleteProduct)
	admin.POST("/products/:id/stock", productHandlers.AdjustStock)
	admin.POST("/products/:id/images", productHandlers.UploadImage)

	admin.POST("/categories", categoryHandlers.CreateCategory)
	admin.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	admin.GET("/orders", orderHandlers.AdminListOrders)
	admin.PUT("/orders/:id/status", orderHandlers.AdminUpdateOrderStatus)

	admin.GET("/blog", blogHandlers.AdminListPosts)
	admin.POST("/blog", blogHandlers.CreatePost)
	admin.PUT("/blog/:id", blogHandlers.UpdatePost)
	admin.PUT("/blog/:id/publish", blogHandlers.SetPublished)
	admin.DELETE("/blog/:id", blogHandlers.DeletePost)

	admin.GET("/feedback", feedbackHandlers.ListFeedback)
	admin.PUT("/feedback/:id/status", feedbackHandlers.UpdateFeedbackStatus)

	admin.POST("/customers/notes", noteHandlers.CreateNote)
	admin.GET("/customers/notes", noteHandlers.ListNotes)
	admin.PUT("/customers/notes/:id", noteHandlers.UpdateNote)
	admin.DELETE("/customers/notes/:id", noteHandlers.DeleteNote, middleware.RequireRole(models.RoleAdmin))

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		log.Printf("Scentlab server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
