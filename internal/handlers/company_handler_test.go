package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"datapi/internal/analytics"
	apperrors "datapi/internal/errors"
	"datapi/internal/models"
	"datapi/internal/pagination"
	"datapi/internal/services"
)

type mockCompanyService struct {
	createCompanyFn      func(in services.CompanyInput) (*models.Company, error)
	getCompanyByTickerFn func(ticker string) (*models.Company, error)
	listCompaniesFn      func(page pagination.PageRequest, filter services.CompanyFilter) (*pagination.PageResponse[models.Company], error)
	updateCompanyFn      func(ticker string, in services.CompanyInput) (*models.Company, error)
	deleteCompanyFn      func(ticker string) error
}

var _ services.CompanyServicer = (*mockCompanyService)(nil)

func (m *mockCompanyService) CreateCompany(in services.CompanyInput) (*models.Company, error) {
	if m.createCompanyFn != nil {
		return m.createCompanyFn(in)
	}
	return &models.Company{}, nil
}

func (m *mockCompanyService) GetCompanyByTicker(ticker string) (*models.Company, error) {
	if m.getCompanyByTickerFn != nil {
		return m.getCompanyByTickerFn(ticker)
	}
	return &models.Company{}, nil
}

func (m *mockCompanyService) ListCompanies(page pagination.PageRequest, filter services.CompanyFilter) (*pagination.PageResponse[models.Company], error) {
	if m.listCompaniesFn != nil {
		return m.listCompaniesFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Company{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCompanyService) UpdateCompany(ticker string, in services.CompanyInput) (*models.Company, error) {
	if m.updateCompanyFn != nil {
		return m.updateCompanyFn(ticker, in)
	}
	return &models.Company{}, nil
}

func (m *mockCompanyService) DeleteCompany(ticker string) error {
	if m.deleteCompanyFn != nil {
		return m.deleteCompanyFn(ticker)
	}
	return nil
}

// mockAnalyticsService records invalidations so handler tests can assert
// cache busting after writes.
type mockAnalyticsService struct {
	getReportFn    func(ticker string, format analytics.ReportFormat) (analytics.Report, error)
	runScenariosFn func(ticker string, scenarios []analytics.Scenario) ([]analytics.ScenarioResult, error)
	invalidated    []string
}

var _ services.AnalyticsServicer = (*mockAnalyticsService)(nil)

func (m *mockAnalyticsService) GetReport(ticker string, format analytics.ReportFormat) (analytics.Report, error) {
	if m.getReportFn != nil {
		return m.getReportFn(ticker, format)
	}
	return analytics.SummaryReport{Ticker: ticker}, nil
}

func (m *mockAnalyticsService) RunScenarios(ticker string, scenarios []analytics.Scenario) ([]analytics.ScenarioResult, error) {
	if m.runScenariosFn != nil {
		return m.runScenariosFn(ticker, scenarios)
	}
	return []analytics.ScenarioResult{}, nil
}

func (m *mockAnalyticsService) Invalidate(ticker string) {
	m.invalidated = append(m.invalidated, ticker)
}

func setupCompanyRouter(handler *CompanyHandler) *gin.Engine {
	r := gin.New()
	r.GET("/companies", handler.ListCompanies)
	r.GET("/companies/:ticker", handler.GetCompany)
	r.POST("/admin/companies", handler.CreateCompany)
	r.PUT("/admin/companies/:ticker", handler.UpdateCompany)
	r.DELETE("/admin/companies/:ticker", handler.DeleteCompany)
	return r
}

const validCompanyBody = `{
	"ticker": "DTC",
	"name": "Digital Treasury Corp",
	"description": "Holds bitcoin on its balance sheet",
	"sector": "Technology",
	"market_cap": 10000000000,
	"shares_outstanding": 10000000
}`

func TestCompanyHandler_ListCompanies(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.CompanyFilter
		companySvc := &mockCompanyService{
			listCompaniesFn: func(_ pagination.PageRequest, filter services.CompanyFilter) (*pagination.PageResponse[models.Company], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Company{{Ticker: "DTC"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupCompanyRouter(NewCompanyHandler(companySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "GET", "/companies?sector=Technology&treasury_focused=true", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Sector == nil || *gotFilter.Sector != "Technology" {
			t.Errorf("expected sector filter Technology, got %v", gotFilter.Sector)
		}
		if gotFilter.TreasuryFocused == nil || !*gotFilter.TreasuryFocused {
			t.Errorf("expected treasury_focused filter true, got %v", gotFilter.TreasuryFocused)
		}
	})
}

func TestCompanyHandler_GetCompany(t *testing.T) {
	t.Run("returns 404 for unknown ticker", func(t *testing.T) {
		companySvc := &mockCompanyService{
			getCompanyByTickerFn: func(_ string) (*models.Company, error) {
				return nil, apperrors.ErrCompanyNotFound
			},
		}
		r := setupCompanyRouter(NewCompanyHandler(companySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "GET", "/companies/NOPE", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "COMPANY_NOT_FOUND")
	})
}

func TestCompanyHandler_CreateCompany(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		companySvc := &mockCompanyService{
			createCompanyFn: func(in services.CompanyInput) (*models.Company, error) {
				return &models.Company{Base: models.Base{ID: 1}, Ticker: in.Ticker, Name: in.Name}, nil
			},
		}
		r := setupCompanyRouter(NewCompanyHandler(companySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "POST", "/admin/companies", validCompanyBody)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		company := parseJSON(t, rec)["company"].(map[string]interface{})
		if company["ticker"] != "DTC" {
			t.Errorf("expected ticker DTC, got %v", company["ticker"])
		}
	})

	t.Run("returns 400 without calling the service", func(t *testing.T) {
		called := false
		companySvc := &mockCompanyService{
			createCompanyFn: func(_ services.CompanyInput) (*models.Company, error) {
				called = true
				return &models.Company{}, nil
			},
		}
		r := setupCompanyRouter(NewCompanyHandler(companySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "POST", "/admin/companies", `{"ticker":"DTC"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if called {
			t.Error("expected service not to be called on invalid input")
		}
	})

	t.Run("passes through 409", func(t *testing.T) {
		companySvc := &mockCompanyService{
			createCompanyFn: func(_ services.CompanyInput) (*models.Company, error) {
				return nil, apperrors.ErrDuplicateTicker
			},
		}
		r := setupCompanyRouter(NewCompanyHandler(companySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "POST", "/admin/companies", validCompanyBody)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_TICKER")
	})
}

func TestCompanyHandler_UpdateCompany(t *testing.T) {
	t.Run("invalidates cached analytics", func(t *testing.T) {
		companySvc := &mockCompanyService{
			updateCompanyFn: func(ticker string, _ services.CompanyInput) (*models.Company, error) {
				return &models.Company{Ticker: "DTC"}, nil
			},
		}
		analyticsSvc := &mockAnalyticsService{}
		r := setupCompanyRouter(NewCompanyHandler(companySvc, analyticsSvc))

		rec := doRequest(r, "PUT", "/admin/companies/DTC", validCompanyBody)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(analyticsSvc.invalidated) != 1 || analyticsSvc.invalidated[0] != "DTC" {
			t.Errorf("expected analytics invalidation for DTC, got %v", analyticsSvc.invalidated)
		}
	})

	t.Run("does not invalidate on failure", func(t *testing.T) {
		companySvc := &mockCompanyService{
			updateCompanyFn: func(_ string, _ services.CompanyInput) (*models.Company, error) {
				return nil, apperrors.ErrCompanyNotFound
			},
		}
		analyticsSvc := &mockAnalyticsService{}
		r := setupCompanyRouter(NewCompanyHandler(companySvc, analyticsSvc))

		rec := doRequest(r, "PUT", "/admin/companies/NOPE", validCompanyBody)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(analyticsSvc.invalidated) != 0 {
			t.Errorf("expected no invalidation, got %v", analyticsSvc.invalidated)
		}
	})
}

func TestCompanyHandler_DeleteCompany(t *testing.T) {
	t.Run("invalidates cached analytics", func(t *testing.T) {
		analyticsSvc := &mockAnalyticsService{}
		r := setupCompanyRouter(NewCompanyHandler(&mockCompanyService{}, analyticsSvc))

		rec := doRequest(r, "DELETE", "/admin/companies/DTC", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(analyticsSvc.invalidated) != 1 {
			t.Errorf("expected one invalidation, got %v", analyticsSvc.invalidated)
		}
	})
}
