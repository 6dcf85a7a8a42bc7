package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "datapi/internal/errors"
	"datapi/internal/services"
)

// CapitalHandler handles capital structure requests.
type CapitalHandler struct {
	capitalService   services.CapitalServicer
	analyticsService services.AnalyticsServicer
}

// NewCapitalHandler creates a new CapitalHandler.
func NewCapitalHandler(capitalService services.CapitalServicer, analyticsService services.AnalyticsServicer) *CapitalHandler {
	return &CapitalHandler{capitalService: capitalService, analyticsService: analyticsService}
}

// CapitalStructureRequest represents the payload for upserting share counts.
type CapitalStructureRequest struct {
	BasicShares         int64 `json:"basic_shares" binding:"gte=0"`
	DilutedShares       int64 `json:"diluted_shares" binding:"gte=0"`
	FloatShares         int64 `json:"float_shares" binding:"gte=0"`
	InsiderShares       int64 `json:"insider_shares" binding:"gte=0"`
	InstitutionalShares int64 `json:"institutional_shares" binding:"gte=0"`
	WeightedAvgShares   int64 `json:"weighted_avg_shares" binding:"gte=0"`
	OptionsOutstanding  int64 `json:"options_outstanding" binding:"gte=0"`
	RSUsOutstanding     int64 `json:"rsus_outstanding" binding:"gte=0"`
	PSUsOutstanding     int64 `json:"psus_outstanding" binding:"gte=0"`
}

// ConvertibleRequest represents the payload for adding convertible debt.
type ConvertibleRequest struct {
	Principal       int64     `json:"principal" binding:"required,gt=0"`
	CouponRate      float64   `json:"coupon_rate" binding:"gte=0,lte=100"`
	ConversionPrice int64     `json:"conversion_price" binding:"gte=0"`
	ConversionRatio float64   `json:"conversion_ratio" binding:"gte=0"`
	IssueDate       time.Time `json:"issue_date" binding:"required"`
	MaturityDate    time.Time `json:"maturity_date" binding:"required"`
}

// WarrantRequest represents the payload for adding a warrant issuance.
type WarrantRequest struct {
	StrikePrice    int64     `json:"strike_price" binding:"required,gt=0"`
	Count          int64     `json:"count" binding:"required,gt=0"`
	Exercisable    bool      `json:"exercisable"`
	IssueDate      time.Time `json:"issue_date" binding:"required"`
	ExpirationDate time.Time `json:"expiration_date" binding:"required"`
}

// GetCapitalStructure returns a company's capital structure
// @Summary     Get capital structure
// @Description Get a company's share counts with convertible debt and warrants
// @Tags        capital
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} models.CapitalStructure "Capital structure"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /companies/{ticker}/capital [get]
func (h *CapitalHandler) GetCapitalStructure(c *gin.Context) {
	cs, err := h.capitalService.GetCapitalStructure(c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"capital_structure": cs})
}

// UpsertCapitalStructure creates or updates a company's capital structure
// @Summary     Upsert capital structure
// @Description Create or replace a company's share counts
// @Tags        capital
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Param       request body CapitalStructureRequest true "Share counts"
// @Success     200 {object} models.CapitalStructure "Capital structure saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /admin/companies/{ticker}/capital [put]
func (h *CapitalHandler) UpsertCapitalStructure(c *gin.Context) {
	ticker := c.Param("ticker")

	var req CapitalStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cs, err := h.capitalService.UpsertCapitalStructure(ticker, services.CapitalStructureInput{
		BasicShares:         req.BasicShares,
		DilutedShares:       req.DilutedShares,
		FloatShares:         req.FloatShares,
		InsiderShares:       req.InsiderShares,
		InstitutionalShares: req.InstitutionalShares,
		WeightedAvgShares:   req.WeightedAvgShares,
		OptionsOutstanding:  req.OptionsOutstanding,
		RSUsOutstanding:     req.RSUsOutstanding,
		PSUsOutstanding:     req.PSUsOutstanding,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.analyticsService.Invalidate(ticker)
	c.JSON(http.StatusOK, gin.H{"capital_structure": cs})
}

// AddConvertible adds a convertible note
// @Summary     Add convertible debt
// @Description Add a convertible note to a company's capital structure
// @Tags        capital
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Param       request body ConvertibleRequest true "Convertible details"
// @Success     201 {object} models.ConvertibleDebt "Convertible added"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Capital structure not found"
// @Router      /admin/companies/{ticker}/capital/convertibles [post]
func (h *CapitalHandler) AddConvertible(c *gin.Context) {
	ticker := c.Param("ticker")

	var req ConvertibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	convertible, err := h.capitalService.AddConvertible(ticker, services.ConvertibleInput{
		Principal:       req.Principal,
		CouponRate:      req.CouponRate,
		ConversionPrice: req.ConversionPrice,
		ConversionRatio: req.ConversionRatio,
		IssueDate:       req.IssueDate,
		MaturityDate:    req.MaturityDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.analyticsService.Invalidate(ticker)
	c.JSON(http.StatusCreated, gin.H{"convertible": convertible})
}

// AddWarrant adds a warrant issuance
// @Summary     Add warrant
// @Description Add a warrant issuance to a company's capital structure
// @Tags        capital
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Param       request body WarrantRequest true "Warrant details"
// @Success     201 {object} models.Warrant "Warrant added"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Capital structure not found"
// @Router      /admin/companies/{ticker}/capital/warrants [post]
func (h *CapitalHandler) AddWarrant(c *gin.Context) {
	ticker := c.Param("ticker")

	var req WarrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	warrant, err := h.capitalService.AddWarrant(ticker, services.WarrantInput{
		StrikePrice:    req.StrikePrice,
		Count:          req.Count,
		Exercisable:    req.Exercisable,
		IssueDate:      req.IssueDate,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.analyticsService.Invalidate(ticker)
	c.JSON(http.StatusCreated, gin.H{"warrant": warrant})
}

// DeleteConvertible removes a convertible note
// @Summary     Delete convertible
// @Description Delete a convertible note by ID
// @Tags        capital
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Convertible ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/convertibles/{id} [delete]
func (h *CapitalHandler) DeleteConvertible(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.capitalService.DeleteConvertible(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Convertible deleted"})
}

// DeleteWarrant removes a warrant issuance
// @Summary     Delete warrant
// @Description Delete a warrant issuance by ID
// @Tags        capital
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Warrant ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/warrants/{id} [delete]
func (h *CapitalHandler) DeleteWarrant(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.capitalService.DeleteWarrant(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Warrant deleted"})
}
