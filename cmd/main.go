package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"stockaudit/internal/caching"
	"stockaudit/internal/handlers"
	"stockaudit/internal/jobs/background"
	"stockaudit/internal/middleware"
	"stockaudit/internal/repositories"
	"stockaudit/internal/services"
	"stockaudit/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("Schema check failed: %v", err)
	}

	// Admin token configuration
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD environment variable is required")
	}
	adminTokenSecret := os.Getenv("ADMIN_TOKEN_SECRET")
	if adminTokenSecret == "" {
		adminTokenSecret = services.DefaultAdminTokenSecret
		log.Printf("WARNING: ADMIN_TOKEN_SECRET not set, using insecure built-in default")
	}

	// Session JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = adminTokenSecret
		log.Printf("WARNING: JWT_SECRET not set, falling back to admin token secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Create repositories
	stockTakeRepo := repositories.NewStockTakeRepository(pool)
	binCountRepo := repositories.NewBinCountRepository(pool)
	stockItemRepo := repositories.NewStockItemRepository(pool)
	managerRepo := repositories.NewManagerRepository(pool)
	binLocationRepo := repositories.NewBinLocationRepository(pool)
	catalogRepo := repositories.NewCatalogItemRepository(pool)
	grantRepo := repositories.NewAccessGrantRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Report storage (optional; reports are skipped when MinIO is not
	// configured)
	var reportSvc services.ReportService
	if minioEndpoint := os.Getenv("MINIO_ENDPOINT"); minioEndpoint != "" {
		minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
		minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
		useSSL := os.Getenv("MINIO_USE_SSL") == "true"
		bucket := os.Getenv("REPORT_BUCKET")
		if bucket == "" {
			bucket = "stock-take-reports"
		}

		storage, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, useSSL, bucket)
		if err != nil {
			log.Fatalf("Failed to initialize report storage: %v", err)
		}
		if err := storage.EnsureBucketExists(context.Background()); err != nil {
			log.Printf("WARNING: report bucket check failed: %v", err)
		}
		reportSvc = services.NewReportService(stockItemRepo, storage)
	} else {
		log.Printf("MINIO_ENDPOINT not set, stock take reports disabled")
	}

	// Create services
	adminTokenSvc := services.NewAdminTokenService(adminTokenSecret, nil)
	accessSvc := services.NewAccessService(managerRepo, grantRepo)
	stockTakeSvc := services.NewStockTakeService(stockTakeRepo, accessSvc, cacheSvc, reportSvc)
	binCountSvc := services.NewBinCountService(binCountRepo, stockTakeRepo, binLocationRepo, catalogRepo, accessSvc)
	authSvc := services.NewAuthService(managerRepo, jwtSecret)

	// Create handlers
	adminAuthHandlers := handlers.NewAdminAuthHandlers(adminTokenSvc, adminPassword)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	stockTakeHandlers := handlers.NewStockTakeHandlers(stockTakeSvc, reportSvc)
	binCountHandlers := handlers.NewBinCountHandlers(binCountSvc)
	binLocationHandlers := handlers.NewBinLocationHandlers(binLocationRepo)
	grantHandlers := handlers.NewAccessGrantHandlers(grantRepo, accessSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(stockTakeRepo, cacheSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")

	// Manager session login
	v1.POST("/auth/login", authHandlers.Login)

	// Counting routes; a session JWT is optional, anonymous counting is
	// allowed by policy.
	counting := v1.Group("")
	counting.Use(middleware.SessionMiddleware(jwtSecret))

	counting.POST("/stock-takes", stockTakeHandlers.Open)
	counting.GET("/stock-takes", stockTakeHandlers.List)
	counting.GET("/stock-takes/active", stockTakeHandlers.FindActive)
	counting.GET("/stock-takes/:id", stockTakeHandlers.Get)
	counting.PUT("/stock-takes/:id/close", stockTakeHandlers.Close)
	counting.GET("/stock-takes/:id/report", stockTakeHandlers.Report)

	counting.POST("/bin-location-counts", binCountHandlers.AddCount)
	counting.GET("/bin-location-counts", binCountHandlers.ListCounts)
	counting.POST("/bin-location-counts/:binLocationId/submit", binCountHandlers.SubmitBin)
	counting.DELETE("/bin-location-counts/:id", binCountHandlers.DeleteCount)

	counting.GET("/bin-locations", binLocationHandlers.List)
	counting.GET("/bin-locations/resolve", binLocationHandlers.Resolve)

	// Admin routes (signed admin token required for everything except login)
	admin := v1.Group("/admin")
	admin.POST("/login", adminAuthHandlers.Login)

	adminProtected := v1.Group("/admin")
	adminProtected.Use(middleware.AdminTokenMiddleware(adminTokenSvc))
	adminProtected.GET("/manager-company-access", grantHandlers.ListManagerGrants)
	adminProtected.POST("/manager-company-access", grantHandlers.CreateManagerGrant)
	adminProtected.DELETE("/manager-company-access/:id", grantHandlers.DeleteManagerGrant)
	adminProtected.GET("/counter-company-access", grantHandlers.ListCounterGrants)
	adminProtected.POST("/counter-company-access", grantHandlers.CreateCounterGrant)
	adminProtected.DELETE("/counter-company-access/:id", grantHandlers.DeleteCounterGrant)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Stock audit server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
