package main

import (
	"fmt"
	"net/http"
	"os"

	"datapi/internal/cache"
	"datapi/internal/config"
	"datapi/internal/database"
	"datapi/internal/handlers"
	"datapi/internal/logger"
	"datapi/internal/middleware"
	"datapi/internal/models"
	"datapi/internal/provider"
	"datapi/internal/scheduler"
	"datapi/internal/services"
	"datapi/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "datapi/internal/docs" // Import swagger docs
)

// @title           DAT Analytics API
// @version         1.0
// @description     API for browsing and administering public companies holding crypto treasuries, with derived NAV, premium, risk, and dilution analytics.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Cache store: Redis when configured, in-memory otherwise.
	var store cache.Store
	if appConfig.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(appConfig.RedisAddr, appConfig.RedisPassword)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		store = redisStore
		log.Infof("Using Redis cache at %s", appConfig.RedisAddr)
	} else {
		memStore := cache.NewMemoryStore(0)
		defer memStore.Close()
		store = memStore
		log.Info("Using in-memory cache")
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	companyService := services.NewCompanyService(db)
	treasuryService := services.NewTreasuryService(db, companyService)
	capitalService := services.NewCapitalService(db, companyService)
	compensationService := services.NewCompensationService(db, companyService)
	marketService := services.NewMarketService(db, companyService)
	analyticsService := services.NewAnalyticsService(db, store)

	if err := userService.Bootstrap(appConfig.AdminUsername, appConfig.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	// Market data refresh via external providers.
	coinGecko := provider.NewCoinGeckoProvider(nil, appConfig.CoinGeckoAPIKey)
	stooq := provider.NewStooqProvider(nil)
	refresher := scheduler.NewRefresher(db, marketService, coinGecko, stooq)
	if err := refresher.Start(appConfig.RefreshCron); err != nil {
		return fmt.Errorf("failed to start market data refresh: %w", err)
	}
	defer refresher.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	companyHandler := handlers.NewCompanyHandler(companyService, analyticsService)
	treasuryHandler := handlers.NewTreasuryHandler(treasuryService, analyticsService)
	capitalHandler := handlers.NewCapitalHandler(capitalService, analyticsService)
	compensationHandler := handlers.NewCompensationHandler(compensationService)
	marketHandler := handlers.NewMarketHandler(marketService, analyticsService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RateLimit(store, appConfig.RateLimit, appConfig.RateWindow))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public read-only API
	v1 := router.Group("/api/v1")
	v1.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1auth := v1.Group("/auth")
	v1auth.POST("/login", authHandler.Login)
	v1auth.POST("/refresh", authHandler.Refresh)
	v1auth.GET("/profile", middleware.AuthMiddleware(), authHandler.GetProfile)

	companies := v1.Group("/companies")
	companies.GET("", companyHandler.ListCompanies)
	companies.GET("/:ticker", companyHandler.GetCompany)
	companies.GET("/:ticker/holdings", treasuryHandler.GetHoldings)
	companies.GET("/:ticker/capital", capitalHandler.GetCapitalStructure)
	companies.GET("/:ticker/compensation", compensationHandler.ListCompensation)
	companies.GET("/:ticker/quote", marketHandler.GetLatestQuote)
	companies.GET("/:ticker/quotes", marketHandler.GetQuoteHistory)
	companies.GET("/:ticker/analytics", analyticsHandler.GetReport)
	companies.POST("/:ticker/analytics/scenarios", analyticsHandler.RunScenarios)

	v1.GET("/holdings/:id", treasuryHandler.GetHolding)
	v1.GET("/holdings/:id/transactions", treasuryHandler.GetTransactions)

	assets := v1.Group("/assets")
	assets.GET("/prices", marketHandler.GetAssetPrices)
	assets.GET("/:asset/prices", marketHandler.GetAssetPriceHistory)

	market := v1.Group("/market")
	market.GET("/assets", marketHandler.GetAssetPrices)
	market.GET("/assets/:asset/history", marketHandler.GetAssetPriceHistory)
	market.GET("/:ticker", marketHandler.GetLatestQuote)
	market.GET("/:ticker/history", marketHandler.GetQuoteHistory)

	analytics := v1.Group("/analytics")
	analytics.GET("/:ticker", analyticsHandler.GetReport)
	analytics.POST("/:ticker/scenarios", analyticsHandler.RunScenarios)

	// Auth
	auth := router.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Admin API: authenticated, role-gated writes.
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware())

	admin.GET("/profile", authHandler.GetProfile)
	admin.POST("/users", middleware.RequireRole(models.AdminRoleAdmin), authHandler.CreateUser)
	admin.POST("/market/refresh", middleware.RequireRole(models.AdminRoleAdmin), func(c *gin.Context) {
		go refresher.RefreshAll()
		c.JSON(http.StatusAccepted, gin.H{"message": "Market data refresh started"})
	})
	admin.DELETE("/companies/:ticker", middleware.RequireRole(models.AdminRoleAdmin), companyHandler.DeleteCompany)

	editors := admin.Group("/")
	editors.Use(middleware.RequireRole(models.AdminRoleAdmin, models.AdminRoleEditor))
	editors.POST("/companies", companyHandler.CreateCompany)
	editors.PUT("/companies/:ticker", companyHandler.UpdateCompany)
	editors.POST("/companies/:ticker/holdings", treasuryHandler.AddHolding)
	editors.DELETE("/holdings/:id", treasuryHandler.DeleteHolding)
	editors.POST("/holdings/:id/transactions", treasuryHandler.RecordTransaction)
	editors.PUT("/companies/:ticker/capital", capitalHandler.UpsertCapitalStructure)
	editors.POST("/companies/:ticker/capital/convertibles", capitalHandler.AddConvertible)
	editors.POST("/companies/:ticker/capital/warrants", capitalHandler.AddWarrant)
	editors.DELETE("/convertibles/:id", capitalHandler.DeleteConvertible)
	editors.DELETE("/warrants/:id", capitalHandler.DeleteWarrant)
	editors.POST("/companies/:ticker/compensation", compensationHandler.RecordCompensation)
	editors.DELETE("/compensation/:id", compensationHandler.DeleteCompensation)

	// Pipeline ingest: API-key gated batch writes.
	pipeline := router.Group("/api/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/quotes", marketHandler.IngestQuotes)
	pipeline.POST("/prices", marketHandler.IngestAssetPrices)
	pipeline.POST("/asset-prices", marketHandler.IngestAssetPrices)

	log.Infof("Starting DAT Analytics API on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
