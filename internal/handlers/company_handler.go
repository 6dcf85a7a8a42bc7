package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "datapi/internal/errors"
	"datapi/internal/pagination"
	"datapi/internal/services"
)

// CompanyHandler handles company-related requests.
type CompanyHandler struct {
	companyService   services.CompanyServicer
	analyticsService services.AnalyticsServicer
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService services.CompanyServicer, analyticsService services.AnalyticsServicer) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, analyticsService: analyticsService}
}

// CompanyRequest represents the payload for creating or updating a company.
type CompanyRequest struct {
	Ticker               string `json:"ticker" binding:"required,min=1,max=10"`
	Name                 string `json:"name" binding:"required,min=1,max=200"`
	Description          string `json:"description" binding:"required,max=2000"`
	Sector               string `json:"sector" binding:"required,max=100"`
	MarketCap            int64  `json:"market_cap" binding:"gte=0"`
	SharesOutstanding    int64  `json:"shares_outstanding" binding:"gte=0"`
	ShareholdersEquity   int64  `json:"shareholders_equity"`
	TotalDebt            int64  `json:"total_debt" binding:"gte=0"`
	RevenueStreams       string `json:"revenue_streams" binding:"max=2000"`
	OperatingRevenue     int64  `json:"operating_revenue" binding:"gte=0"`
	OperatingExpenses    int64  `json:"operating_expenses" binding:"gte=0"`
	CashBurn             int64  `json:"cash_burn"`
	TreasuryFocused      bool   `json:"treasury_focused"`
	BoardSize            int    `json:"board_size" binding:"gte=0,lte=50"`
	IndependentDirectors int    `json:"independent_directors" binding:"gte=0,lte=50"`
	FounderCEO           bool   `json:"founder_ceo"`
	VotingStructure      string `json:"voting_structure" binding:"max=200"`
	AuditFirm            string `json:"audit_firm" binding:"max=200"`
}

// ListCompaniesRequest represents the query parameters for listing companies.
type ListCompaniesRequest struct {
	pagination.PageRequest
	Sector          *string `form:"sector"`
	TreasuryFocused *bool   `form:"treasury_focused"`
}

func (r *CompanyRequest) toInput() services.CompanyInput {
	return services.CompanyInput{
		Ticker:               r.Ticker,
		Name:                 r.Name,
		Description:          r.Description,
		Sector:               r.Sector,
		MarketCap:            r.MarketCap,
		SharesOutstanding:    r.SharesOutstanding,
		ShareholdersEquity:   r.ShareholdersEquity,
		TotalDebt:            r.TotalDebt,
		RevenueStreams:       r.RevenueStreams,
		OperatingRevenue:     r.OperatingRevenue,
		OperatingExpenses:    r.OperatingExpenses,
		CashBurn:             r.CashBurn,
		TreasuryFocused:      r.TreasuryFocused,
		BoardSize:            r.BoardSize,
		IndependentDirectors: r.IndependentDirectors,
		FounderCEO:           r.FounderCEO,
		VotingStructure:      r.VotingStructure,
		AuditFirm:            r.AuditFirm,
	}
}

// ListCompanies lists companies with optional filters
// @Summary     List companies
// @Description List companies with optional sector and treasury-focus filters
// @Tags        companies
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       sector query string false "Filter by sector"
// @Param       treasury_focused query bool false "Filter by treasury focus"
// @Success     200 {object} pagination.PageResponse[models.Company] "Companies"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var req ListCompaniesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.companyService.ListCompanies(req.PageRequest, services.CompanyFilter{
		Sector:          req.Sector,
		TreasuryFocused: req.TreasuryFocused,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCompany returns one company by ticker
// @Summary     Get company
// @Description Get a company by its ticker symbol
// @Tags        companies
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} models.Company "Company"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /companies/{ticker} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompanyByTicker(c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

// CreateCompany creates a company
// @Summary     Create company
// @Description Create a new company profile
// @Tags        companies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CompanyRequest true "Company details"
// @Success     201 {object} models.Company "Company created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Duplicate ticker"
// @Router      /admin/companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	company, err := h.companyService.CreateCompany(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// UpdateCompany updates a company
// @Summary     Update company
// @Description Update an existing company profile; the ticker is immutable
// @Tags        companies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Param       request body CompanyRequest true "Company details"
// @Success     200 {object} models.Company "Company updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/companies/{ticker} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	ticker := c.Param("ticker")

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	company, err := h.companyService.UpdateCompany(ticker, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.analyticsService.Invalidate(company.Ticker)
	c.JSON(http.StatusOK, gin.H{"company": company})
}

// DeleteCompany deletes a company and all its data
// @Summary     Delete company
// @Description Delete a company and all associated records
// @Tags        companies
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/companies/{ticker} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	ticker := c.Param("ticker")

	if err := h.companyService.DeleteCompany(ticker); err != nil {
		respondWithError(c, err)
		return
	}

	h.analyticsService.Invalidate(ticker)
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}
