package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "datapi/internal/errors"
	"datapi/internal/pagination"
	"datapi/internal/services"
)

// CompensationHandler handles executive compensation requests.
type CompensationHandler struct {
	compensationService services.CompensationServicer
}

// NewCompensationHandler creates a new CompensationHandler.
func NewCompensationHandler(compensationService services.CompensationServicer) *CompensationHandler {
	return &CompensationHandler{compensationService: compensationService}
}

// CompensationRequest represents the payload for recording compensation.
type CompensationRequest struct {
	ExecutiveName string `json:"executive_name" binding:"required,min=1,max=200"`
	Title         string `json:"title" binding:"required,max=200"`
	Year          int    `json:"year" binding:"required"`
	CashComp      int64  `json:"cash_comp" binding:"gte=0"`
	StockAwards   int64  `json:"stock_awards" binding:"gte=0"`
	OptionAwards  int64  `json:"option_awards" binding:"gte=0"`
	CryptoComp    int64  `json:"crypto_comp" binding:"gte=0"`
	OtherComp     int64  `json:"other_comp" binding:"gte=0"`
}

// ListCompensationRequest represents the query parameters for listing
// compensation records.
type ListCompensationRequest struct {
	pagination.PageRequest
	Year *int `form:"year" binding:"omitempty,min=1990"`
}

// ListCompensation lists a company's executive compensation records
// @Summary     List compensation
// @Description List executive compensation for a company, optionally by year
// @Tags        compensation
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Param       year query int false "Filter by fiscal year"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.ExecutiveCompensation] "Compensation records"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{ticker}/compensation [get]
func (h *CompensationHandler) ListCompensation(c *gin.Context) {
	var req ListCompensationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.compensationService.ListCompensation(c.Param("ticker"), req.Year, req.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecordCompensation creates or updates a compensation record
// @Summary     Record compensation
// @Description Record executive compensation for a fiscal year, replacing any
// @Description existing record for the same executive and year
// @Tags        compensation
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Param       request body CompensationRequest true "Compensation details"
// @Success     201 {object} models.ExecutiveCompensation "Compensation recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /admin/companies/{ticker}/compensation [post]
func (h *CompensationHandler) RecordCompensation(c *gin.Context) {
	var req CompensationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	comp, err := h.compensationService.RecordCompensation(c.Param("ticker"), services.CompensationInput{
		ExecutiveName: req.ExecutiveName,
		Title:         req.Title,
		Year:          req.Year,
		CashComp:      req.CashComp,
		StockAwards:   req.StockAwards,
		OptionAwards:  req.OptionAwards,
		CryptoComp:    req.CryptoComp,
		OtherComp:     req.OtherComp,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"compensation": comp})
}

// DeleteCompensation removes a compensation record
// @Summary     Delete compensation
// @Description Delete an executive compensation record by ID
// @Tags        compensation
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Compensation record ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/compensation/{id} [delete]
func (h *CompensationHandler) DeleteCompensation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.compensationService.DeleteCompensation(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Compensation record deleted"})
}
