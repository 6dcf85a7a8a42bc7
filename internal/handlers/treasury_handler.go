package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "datapi/internal/errors"
	"datapi/internal/models"
	"datapi/internal/pagination"
	"datapi/internal/services"
)

// TreasuryHandler handles treasury holding and transaction requests.
type TreasuryHandler struct {
	treasuryService  services.TreasuryServicer
	analyticsService services.AnalyticsServicer
}

// NewTreasuryHandler creates a new TreasuryHandler.
func NewTreasuryHandler(treasuryService services.TreasuryServicer, analyticsService services.AnalyticsServicer) *TreasuryHandler {
	return &TreasuryHandler{treasuryService: treasuryService, analyticsService: analyticsService}
}

// AddHoldingRequest represents the payload for adding a treasury holding.
type AddHoldingRequest struct {
	Asset         string     `json:"asset" binding:"required,crypto_asset"`
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	PricePerUnit  int64      `json:"price_per_unit" binding:"required,gt=0"`
	FundingMethod string     `json:"funding_method" binding:"required,funding_method"`
	Date          *time.Time `json:"date"`
	Notes         string     `json:"notes" binding:"max=1000"`
}

// RecordTransactionRequest represents the payload for recording a treasury
// transaction against an existing holding.
type RecordTransactionRequest struct {
	Type          string    `json:"type" binding:"required,treasury_tx_type"`
	Date          time.Time `json:"date" binding:"required"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	PricePerUnit  int64     `json:"price_per_unit" binding:"gte=0"`
	FundingMethod string    `json:"funding_method" binding:"omitempty,funding_method"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

// GetHoldings lists a company's treasury holdings
// @Summary     List holdings
// @Description List a company's treasury holdings with current valuations
// @Tags        treasury
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {array} models.TreasuryHolding "Holdings"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{ticker}/holdings [get]
func (h *TreasuryHandler) GetHoldings(c *gin.Context) {
	holdings, err := h.treasuryService.GetCompanyHoldings(c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// GetHolding returns one holding by ID
// @Summary     Get holding
// @Description Get a treasury holding by ID with current valuation
// @Tags        treasury
// @Produce     json
// @Param       id path int true "Holding ID"
// @Success     200 {object} models.TreasuryHolding "Holding"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /holdings/{id} [get]
func (h *TreasuryHandler) GetHolding(c *gin.Context) {
	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.treasuryService.GetHoldingByID(holdingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// AddHolding adds a treasury holding to a company
// @Summary     Add holding
// @Description Add a crypto treasury holding with an initial purchase
// @Tags        treasury
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Param       request body AddHoldingRequest true "Holding details"
// @Success     201 {object} models.TreasuryHolding "Holding created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Failure     409 {object} ErrorResponse "Duplicate holding"
// @Router      /admin/companies/{ticker}/holdings [post]
func (h *TreasuryHandler) AddHolding(c *gin.Context) {
	ticker := c.Param("ticker")

	var req AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holding, err := h.treasuryService.AddHolding(
		ticker,
		models.CryptoAsset(req.Asset),
		req.Amount,
		req.PricePerUnit,
		req.FundingMethod,
		req.Date,
		req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.analyticsService.Invalidate(ticker)
	c.JSON(http.StatusCreated, gin.H{"holding": holding})
}

// RecordTransaction records a transaction against a holding
// @Summary     Record transaction
// @Description Record a purchase, sale, stake, or unstake against a holding
// @Tags        treasury
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Param       request body RecordTransactionRequest true "Transaction details"
// @Success     201 {object} models.TreasuryTransaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /admin/holdings/{id}/transactions [post]
func (h *TreasuryHandler) RecordTransaction(c *gin.Context) {
	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tx, err := h.treasuryService.RecordTransaction(
		holdingID,
		models.TreasuryTransactionType(req.Type),
		req.Date,
		req.Amount,
		req.PricePerUnit,
		req.FundingMethod,
		req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if holding, getErr := h.treasuryService.GetHoldingByID(holdingID); getErr == nil {
		h.analyticsService.Invalidate(holding.Company.Ticker)
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetTransactions lists a holding's transaction ledger
// @Summary     List transactions
// @Description List a holding's transactions, newest first
// @Tags        treasury
// @Produce     json
// @Param       id path int true "Holding ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.TreasuryTransaction] "Transactions"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id}/transactions [get]
func (h *TreasuryHandler) GetTransactions(c *gin.Context) {
	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.treasuryService.GetHoldingTransactions(holdingID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteHolding deletes a holding and its ledger
// @Summary     Delete holding
// @Description Delete a treasury holding and all its transactions
// @Tags        treasury
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/holdings/{id} [delete]
func (h *TreasuryHandler) DeleteHolding(c *gin.Context) {
	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var ticker string
	if holding, getErr := h.treasuryService.GetHoldingByID(holdingID); getErr == nil {
		ticker = holding.Company.Ticker
	}

	if err := h.treasuryService.DeleteHolding(holdingID); err != nil {
		respondWithError(c, err)
		return
	}

	if ticker != "" {
		h.analyticsService.Invalidate(ticker)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Holding deleted"})
}
