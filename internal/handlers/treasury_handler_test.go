package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "datapi/internal/errors"
	"datapi/internal/models"
	"datapi/internal/pagination"
	"datapi/internal/services"
)

type mockTreasuryService struct {
	addHoldingFn             func(ticker string, asset models.CryptoAsset, amount float64, pricePerUnit int64, fundingMethod string, date *time.Time, notes string) (*models.TreasuryHolding, error)
	getCompanyHoldingsFn     func(ticker string) ([]models.TreasuryHolding, error)
	getHoldingByIDFn         func(holdingID uint) (*models.TreasuryHolding, error)
	recordTransactionFn      func(holdingID uint, txType models.TreasuryTransactionType, date time.Time, amount float64, pricePerUnit int64, fundingMethod, notes string) (*models.TreasuryTransaction, error)
	getHoldingTransactionsFn func(holdingID uint, page pagination.PageRequest) (*pagination.PageResponse[models.TreasuryTransaction], error)
	deleteHoldingFn          func(holdingID uint) error
}

var _ services.TreasuryServicer = (*mockTreasuryService)(nil)

func (m *mockTreasuryService) AddHolding(ticker string, asset models.CryptoAsset, amount float64, pricePerUnit int64, fundingMethod string, date *time.Time, notes string) (*models.TreasuryHolding, error) {
	if m.addHoldingFn != nil {
		return m.addHoldingFn(ticker, asset, amount, pricePerUnit, fundingMethod, date, notes)
	}
	return &models.TreasuryHolding{}, nil
}

func (m *mockTreasuryService) GetCompanyHoldings(ticker string) ([]models.TreasuryHolding, error) {
	if m.getCompanyHoldingsFn != nil {
		return m.getCompanyHoldingsFn(ticker)
	}
	return []models.TreasuryHolding{}, nil
}

func (m *mockTreasuryService) GetHoldingByID(holdingID uint) (*models.TreasuryHolding, error) {
	if m.getHoldingByIDFn != nil {
		return m.getHoldingByIDFn(holdingID)
	}
	return &models.TreasuryHolding{}, nil
}

func (m *mockTreasuryService) RecordTransaction(holdingID uint, txType models.TreasuryTransactionType, date time.Time, amount float64, pricePerUnit int64, fundingMethod, notes string) (*models.TreasuryTransaction, error) {
	if m.recordTransactionFn != nil {
		return m.recordTransactionFn(holdingID, txType, date, amount, pricePerUnit, fundingMethod, notes)
	}
	return &models.TreasuryTransaction{}, nil
}

func (m *mockTreasuryService) GetHoldingTransactions(holdingID uint, page pagination.PageRequest) (*pagination.PageResponse[models.TreasuryTransaction], error) {
	if m.getHoldingTransactionsFn != nil {
		return m.getHoldingTransactionsFn(holdingID, page)
	}
	resp := pagination.NewPageResponse([]models.TreasuryTransaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTreasuryService) DeleteHolding(holdingID uint) error {
	if m.deleteHoldingFn != nil {
		return m.deleteHoldingFn(holdingID)
	}
	return nil
}

func setupTreasuryRouter(handler *TreasuryHandler) *gin.Engine {
	r := gin.New()
	r.GET("/companies/:ticker/holdings", handler.GetHoldings)
	r.GET("/holdings/:id", handler.GetHolding)
	r.GET("/holdings/:id/transactions", handler.GetTransactions)
	r.POST("/admin/companies/:ticker/holdings", handler.AddHolding)
	r.POST("/admin/holdings/:id/transactions", handler.RecordTransaction)
	r.DELETE("/admin/holdings/:id", handler.DeleteHolding)
	return r
}

func TestTreasuryHandler_AddHolding(t *testing.T) {
	t.Run("returns 201 and invalidates analytics", func(t *testing.T) {
		treasurySvc := &mockTreasuryService{
			addHoldingFn: func(ticker string, asset models.CryptoAsset, amount float64, _ int64, _ string, _ *time.Time, _ string) (*models.TreasuryHolding, error) {
				return &models.TreasuryHolding{Base: models.Base{ID: 1}, Asset: asset, Amount: amount}, nil
			},
		}
		analyticsSvc := &mockAnalyticsService{}
		r := setupTreasuryRouter(NewTreasuryHandler(treasurySvc, analyticsSvc))

		rec := doRequest(r, "POST", "/admin/companies/DTC/holdings",
			`{"asset":"BTC","amount":100,"price_per_unit":5000000,"funding_method":"cash"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		holding := parseJSON(t, rec)["holding"].(map[string]interface{})
		if holding["asset"] != "BTC" {
			t.Errorf("expected asset BTC, got %v", holding["asset"])
		}
		if len(analyticsSvc.invalidated) != 1 || analyticsSvc.invalidated[0] != "DTC" {
			t.Errorf("expected invalidation for DTC, got %v", analyticsSvc.invalidated)
		}
	})

	t.Run("returns 400 on unsupported asset", func(t *testing.T) {
		called := false
		treasurySvc := &mockTreasuryService{
			addHoldingFn: func(_ string, _ models.CryptoAsset, _ float64, _ int64, _ string, _ *time.Time, _ string) (*models.TreasuryHolding, error) {
				called = true
				return &models.TreasuryHolding{}, nil
			},
		}
		r := setupTreasuryRouter(NewTreasuryHandler(treasurySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "POST", "/admin/companies/DTC/holdings",
			`{"asset":"DOGE","amount":100,"price_per_unit":100,"funding_method":"cash"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if called {
			t.Error("expected service not to be called for unsupported asset")
		}
	})

	t.Run("passes through 409", func(t *testing.T) {
		treasurySvc := &mockTreasuryService{
			addHoldingFn: func(_ string, _ models.CryptoAsset, _ float64, _ int64, _ string, _ *time.Time, _ string) (*models.TreasuryHolding, error) {
				return nil, apperrors.ErrDuplicateHolding
			},
		}
		r := setupTreasuryRouter(NewTreasuryHandler(treasurySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "POST", "/admin/companies/DTC/holdings",
			`{"asset":"BTC","amount":100,"price_per_unit":5000000,"funding_method":"cash"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestTreasuryHandler_RecordTransaction(t *testing.T) {
	t.Run("returns 201 and invalidates by company ticker", func(t *testing.T) {
		treasurySvc := &mockTreasuryService{
			recordTransactionFn: func(holdingID uint, txType models.TreasuryTransactionType, _ time.Time, amount float64, _ int64, _, _ string) (*models.TreasuryTransaction, error) {
				return &models.TreasuryTransaction{HoldingID: holdingID, Type: txType, Amount: amount}, nil
			},
			getHoldingByIDFn: func(_ uint) (*models.TreasuryHolding, error) {
				return &models.TreasuryHolding{Company: models.Company{Ticker: "DTC"}}, nil
			},
		}
		analyticsSvc := &mockAnalyticsService{}
		r := setupTreasuryRouter(NewTreasuryHandler(treasurySvc, analyticsSvc))

		rec := doRequest(r, "POST", "/admin/holdings/1/transactions",
			`{"type":"sale","date":"2026-08-01T00:00:00Z","amount":25,"price_per_unit":7000000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(analyticsSvc.invalidated) != 1 || analyticsSvc.invalidated[0] != "DTC" {
			t.Errorf("expected invalidation for DTC, got %v", analyticsSvc.invalidated)
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupTreasuryRouter(NewTreasuryHandler(&mockTreasuryService{}, &mockAnalyticsService{}))

		rec := doRequest(r, "POST", "/admin/holdings/1/transactions",
			`{"type":"airdrop","date":"2026-08-01T00:00:00Z","amount":25}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on insufficient holdings", func(t *testing.T) {
		treasurySvc := &mockTreasuryService{
			recordTransactionFn: func(_ uint, _ models.TreasuryTransactionType, _ time.Time, _ float64, _ int64, _, _ string) (*models.TreasuryTransaction, error) {
				return nil, apperrors.ErrInsufficientHoldings
			},
		}
		r := setupTreasuryRouter(NewTreasuryHandler(treasurySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "POST", "/admin/holdings/1/transactions",
			`{"type":"sale","date":"2026-08-01T00:00:00Z","amount":9999,"price_per_unit":7000000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_HOLDINGS")
	})

	t.Run("returns 400 on bad path id", func(t *testing.T) {
		r := setupTreasuryRouter(NewTreasuryHandler(&mockTreasuryService{}, &mockAnalyticsService{}))

		rec := doRequest(r, "POST", "/admin/holdings/abc/transactions",
			`{"type":"sale","date":"2026-08-01T00:00:00Z","amount":25}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTreasuryHandler_GetHoldings(t *testing.T) {
	t.Run("returns 404 for unknown company", func(t *testing.T) {
		treasurySvc := &mockTreasuryService{
			getCompanyHoldingsFn: func(_ string) ([]models.TreasuryHolding, error) {
				return nil, apperrors.ErrCompanyNotFound
			},
		}
		r := setupTreasuryRouter(NewTreasuryHandler(treasurySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "GET", "/companies/NOPE/holdings", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTreasuryHandler_DeleteHolding(t *testing.T) {
	t.Run("invalidates using the holding's company", func(t *testing.T) {
		treasurySvc := &mockTreasuryService{
			getHoldingByIDFn: func(_ uint) (*models.TreasuryHolding, error) {
				return &models.TreasuryHolding{Company: models.Company{Ticker: "DTC"}}, nil
			},
		}
		analyticsSvc := &mockAnalyticsService{}
		r := setupTreasuryRouter(NewTreasuryHandler(treasurySvc, analyticsSvc))

		rec := doRequest(r, "DELETE", "/admin/holdings/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(analyticsSvc.invalidated) != 1 || analyticsSvc.invalidated[0] != "DTC" {
			t.Errorf("expected invalidation for DTC, got %v", analyticsSvc.invalidated)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		treasurySvc := &mockTreasuryService{
			getHoldingByIDFn: func(_ uint) (*models.TreasuryHolding, error) {
				return nil, apperrors.ErrHoldingNotFound
			},
			deleteHoldingFn: func(_ uint) error {
				return apperrors.ErrHoldingNotFound
			},
		}
		r := setupTreasuryRouter(NewTreasuryHandler(treasurySvc, &mockAnalyticsService{}))

		rec := doRequest(r, "DELETE", "/admin/holdings/1", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
