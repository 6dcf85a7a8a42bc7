package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "datapi/internal/errors"
	"datapi/internal/models"
	"datapi/internal/pagination"
	"datapi/internal/services"
)

type mockCompensationService struct {
	recordFn func(ticker string, in services.CompensationInput) (*models.ExecutiveCompensation, error)
	listFn   func(ticker string, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.ExecutiveCompensation], error)
	deleteFn func(id uint) error
}

var _ services.CompensationServicer = (*mockCompensationService)(nil)

func (m *mockCompensationService) RecordCompensation(ticker string, in services.CompensationInput) (*models.ExecutiveCompensation, error) {
	if m.recordFn != nil {
		return m.recordFn(ticker, in)
	}
	return &models.ExecutiveCompensation{}, nil
}

func (m *mockCompensationService) ListCompensation(ticker string, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.ExecutiveCompensation], error) {
	if m.listFn != nil {
		return m.listFn(ticker, year, page)
	}
	resp := pagination.NewPageResponse([]models.ExecutiveCompensation{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCompensationService) DeleteCompensation(id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func setupCompensationRouter(handler *CompensationHandler) *gin.Engine {
	r := gin.New()
	r.GET("/companies/:ticker/compensation", handler.ListCompensation)
	r.POST("/admin/companies/:ticker/compensation", handler.RecordCompensation)
	r.DELETE("/admin/compensation/:id", handler.DeleteCompensation)
	return r
}

func TestCompensationHandler_RecordCompensation(t *testing.T) {
	t.Run("records for ticker", func(t *testing.T) {
		var gotTicker string
		var gotInput services.CompensationInput
		compSvc := &mockCompensationService{
			recordFn: func(ticker string, in services.CompensationInput) (*models.ExecutiveCompensation, error) {
				gotTicker = ticker
				gotInput = in
				return &models.ExecutiveCompensation{ExecutiveName: in.ExecutiveName, Year: in.Year}, nil
			},
		}
		r := setupCompensationRouter(NewCompensationHandler(compSvc))

		rec := doRequest(r, "POST", "/admin/companies/DTC/compensation",
			`{"executive_name":"Jane Roe","title":"CEO","year":2025,"cash_comp":100000000,"stock_awards":250000000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotTicker != "DTC" {
			t.Errorf("expected ticker DTC, got %q", gotTicker)
		}
		if gotInput.ExecutiveName != "Jane Roe" || gotInput.Year != 2025 {
			t.Errorf("unexpected input: %+v", gotInput)
		}
	})

	t.Run("rejects missing name", func(t *testing.T) {
		called := false
		compSvc := &mockCompensationService{
			recordFn: func(string, services.CompensationInput) (*models.ExecutiveCompensation, error) {
				called = true
				return nil, nil
			},
		}
		r := setupCompensationRouter(NewCompensationHandler(compSvc))

		rec := doRequest(r, "POST", "/admin/companies/DTC/compensation",
			`{"title":"CEO","year":2025}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if called {
			t.Error("service should not be called on invalid input")
		}
	})

	t.Run("returns 404 for unknown company", func(t *testing.T) {
		compSvc := &mockCompensationService{
			recordFn: func(string, services.CompensationInput) (*models.ExecutiveCompensation, error) {
				return nil, apperrors.ErrCompanyNotFound
			},
		}
		r := setupCompensationRouter(NewCompensationHandler(compSvc))

		rec := doRequest(r, "POST", "/admin/companies/NOPE/compensation",
			`{"executive_name":"Jane Roe","title":"CEO","year":2025}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "COMPANY_NOT_FOUND")
	})
}

func TestCompensationHandler_ListCompensation(t *testing.T) {
	t.Run("passes year filter", func(t *testing.T) {
		var gotYear *int
		compSvc := &mockCompensationService{
			listFn: func(_ string, year *int, _ pagination.PageRequest) (*pagination.PageResponse[models.ExecutiveCompensation], error) {
				gotYear = year
				resp := pagination.NewPageResponse([]models.ExecutiveCompensation{{Year: 2024}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupCompensationRouter(NewCompensationHandler(compSvc))

		rec := doRequest(r, "GET", "/companies/DTC/compensation?year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotYear == nil || *gotYear != 2024 {
			t.Errorf("expected year filter 2024, got %v", gotYear)
		}
	})

	t.Run("rejects implausible year", func(t *testing.T) {
		r := setupCompensationRouter(NewCompensationHandler(&mockCompensationService{}))

		rec := doRequest(r, "GET", "/companies/DTC/compensation?year=1980", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCompensationHandler_DeleteCompensation(t *testing.T) {
	t.Run("deletes by id", func(t *testing.T) {
		var gotID uint
		compSvc := &mockCompensationService{
			deleteFn: func(id uint) error {
				gotID = id
				return nil
			},
		}
		r := setupCompensationRouter(NewCompensationHandler(compSvc))

		rec := doRequest(r, "DELETE", "/admin/compensation/9", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != 9 {
			t.Errorf("expected id 9, got %d", gotID)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		compSvc := &mockCompensationService{
			deleteFn: func(uint) error {
				return apperrors.ErrCompensationNotFound
			},
		}
		r := setupCompensationRouter(NewCompensationHandler(compSvc))

		rec := doRequest(r, "DELETE", "/admin/compensation/9", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
