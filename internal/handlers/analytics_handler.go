package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datapi/internal/analytics"
	apperrors "datapi/internal/errors"
	"datapi/internal/services"
)

// AnalyticsHandler handles derived-analytics requests.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// ReportRequest represents the query parameters for an analytics report.
type ReportRequest struct {
	Format string `form:"format" binding:"omitempty,report_format"`
}

// ScenarioEntry is one hypothetical price scenario.
type ScenarioEntry struct {
	Name   string           `json:"name" binding:"required,min=1,max=100"`
	Prices map[string]int64 `json:"prices" binding:"required,min=1"`
}

// ScenarioRequest represents a batch of price scenarios to evaluate.
type ScenarioRequest struct {
	Scenarios []ScenarioEntry `json:"scenarios" binding:"required,min=1,max=20,dive"`
}

// GetReport returns an analytics report for a company
// @Summary     Analytics report
// @Description Get the summary, scorecard, or detailed analytics report
// @Tags        analytics
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Param       format query string false "Report format: summary, scorecard, or detailed" default(summary)
// @Success     200 {object} analytics.DetailedReport "Report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{ticker}/analytics [get]
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	format := analytics.ReportFormat(req.Format)
	if req.Format == "" {
		format = analytics.FormatSummary
	}

	report, err := h.analyticsService.GetReport(c.Param("ticker"), format)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report, "format": report.Format()})
}

// RunScenarios evaluates hypothetical price scenarios
// @Summary     Run scenarios
// @Description Recompute valuation metrics under hypothetical asset prices
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Param       request body ScenarioRequest true "Scenarios"
// @Success     200 {array} analytics.ScenarioResult "Results ranked by NAV impact"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{ticker}/analytics/scenarios [post]
func (h *AnalyticsHandler) RunScenarios(c *gin.Context) {
	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	scenarios := make([]analytics.Scenario, 0, len(req.Scenarios))
	for _, sc := range req.Scenarios {
		scenarios = append(scenarios, analytics.Scenario{
			Name:   sc.Name,
			Prices: analytics.PriceSet(sc.Prices),
		})
	}

	results, err := h.analyticsService.RunScenarios(c.Param("ticker"), scenarios)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
