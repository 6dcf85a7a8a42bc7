package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"datapi/internal/cache"
	_ "datapi/internal/docs"
	"datapi/internal/handlers"
	"datapi/internal/logger"
	"datapi/internal/middleware"
	"datapi/internal/models"
	"datapi/internal/services"
	"datapi/internal/validator"
)

// pipelineKey is the API key the test pipeline routes are configured with.
const pipelineKey = "test-pipeline-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Store  cache.Store
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:datapi_testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Company{},
		&models.TreasuryHolding{},
		&models.TreasuryTransaction{},
		&models.CapitalStructure{},
		&models.ConvertibleDebt{},
		&models.Warrant{},
		&models.ExecutiveCompensation{},
		&models.MarketData{},
		&models.AssetPrice{},
		&models.AdminUser{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database with the initial admin user bootstrapped.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	store := cache.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })

	// Services
	userService := services.NewUserService(db)
	companyService := services.NewCompanyService(db)
	treasuryService := services.NewTreasuryService(db, companyService)
	capitalService := services.NewCapitalService(db, companyService)
	compensationService := services.NewCompensationService(db, companyService)
	marketService := services.NewMarketService(db, companyService)
	analyticsService := services.NewAnalyticsService(db, store)

	if err := userService.Bootstrap("admin@example.com", "password123"); err != nil {
		t.Fatalf("failed to bootstrap admin user: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	companyHandler := handlers.NewCompanyHandler(companyService, analyticsService)
	treasuryHandler := handlers.NewTreasuryHandler(treasuryService, analyticsService)
	capitalHandler := handlers.NewCapitalHandler(capitalService, analyticsService)
	compensationHandler := handlers.NewCompensationHandler(compensationService)
	marketHandler := handlers.NewMarketHandler(marketService, analyticsService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

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
	pipeline.Use(middleware.PipelineAuthMiddleware(pipelineKey))
	pipeline.POST("/quotes", marketHandler.IngestQuotes)
	pipeline.POST("/prices", marketHandler.IngestAssetPrices)
	pipeline.POST("/asset-prices", marketHandler.IngestAssetPrices)

	return &testApp{DB: db, Store: store, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipelineRequest makes an API-key authenticated request to a pipeline route.
func (app *testApp) pipelineRequest(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", pipelineKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// loginAs logs in and returns the access and refresh tokens.
func (app *testApp) loginAs(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// loginAdmin logs in as the bootstrapped admin.
func (app *testApp) loginAdmin(t *testing.T) string {
	t.Helper()
	token, _ := app.loginAs(t, "admin@example.com", "password123")
	return token
}

// createCompany creates a company through the admin API.
func (app *testApp) createCompany(t *testing.T, token, ticker string) {
	t.Helper()
	body := fmt.Sprintf(`{
		"ticker": %q,
		"name": "Digital Treasury %s",
		"description": "A company holding a crypto treasury",
		"sector": "Technology",
		"market_cap": 10000000000,
		"shares_outstanding": 10000000,
		"shareholders_equity": 5000000000,
		"total_debt": 1000000000,
		"treasury_focused": true
	}`, ticker, ticker)
	rec := app.request("POST", "/api/admin/companies", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create company failed: %d %s", rec.Code, rec.Body.String())
	}
}

// addHolding adds a treasury holding and returns its ID.
func (app *testApp) addHolding(t *testing.T, token, ticker, asset string, amount float64, pricePerUnit int64) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"asset":%q,"amount":%g,"price_per_unit":%d,"funding_method":"cash"}`, asset, amount, pricePerUnit)
	rec := app.request("POST", "/api/admin/companies/"+ticker+"/holdings", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add holding failed: %d %s", rec.Code, rec.Body.String())
	}
	holding := parseJSON(t, rec)["holding"].(map[string]interface{})
	return holding["id"].(float64)
}
