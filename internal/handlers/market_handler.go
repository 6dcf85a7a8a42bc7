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

// MarketHandler handles market data requests, including the pipeline ingest
// endpoints used by external data loaders.
type MarketHandler struct {
	marketService    services.MarketServicer
	analyticsService services.AnalyticsServicer
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService services.MarketServicer, analyticsService services.AnalyticsServicer) *MarketHandler {
	return &MarketHandler{marketService: marketService, analyticsService: analyticsService}
}

// QuoteEntry is one stock quote in a pipeline ingest batch.
type QuoteEntry struct {
	Ticker     string    `json:"ticker" binding:"required,min=1,max=10"`
	Price      int64     `json:"price" binding:"required,gt=0"`
	DayHigh    int64     `json:"day_high" binding:"gte=0"`
	DayLow     int64     `json:"day_low" binding:"gte=0"`
	Volume     int64     `json:"volume" binding:"gte=0"`
	RecordedAt time.Time `json:"recorded_at"`
}

// IngestQuotesRequest represents a batch of stock quotes.
type IngestQuotesRequest struct {
	Quotes []QuoteEntry `json:"quotes" binding:"required,min=1,max=500,dive"`
}

// AssetPriceEntry is one crypto price in a pipeline ingest batch.
type AssetPriceEntry struct {
	Asset      string    `json:"asset" binding:"required,crypto_asset"`
	Price      int64     `json:"price" binding:"required,gt=0"`
	RecordedAt time.Time `json:"recorded_at"`
}

// IngestAssetPricesRequest represents a batch of crypto asset prices.
type IngestAssetPricesRequest struct {
	Prices []AssetPriceEntry `json:"prices" binding:"required,min=1,max=100,dive"`
}

// QuoteHistoryRequest represents the query parameters for quote history.
type QuoteHistoryRequest struct {
	pagination.PageRequest
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// GetLatestQuote returns the latest stock quote for a company
// @Summary     Latest quote
// @Description Get the most recent stock quote snapshot for a ticker
// @Tags        market
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} models.MarketData "Latest quote"
// @Failure     404 {object} ErrorResponse "No market data"
// @Router      /companies/{ticker}/quote [get]
func (h *MarketHandler) GetLatestQuote(c *gin.Context) {
	quote, err := h.marketService.GetLatestQuote(c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// GetQuoteHistory returns a company's quote history
// @Summary     Quote history
// @Description Get stock quote snapshots for a ticker, newest first
// @Tags        market
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Param       from query string false "Start date (YYYY-MM-DD)"
// @Param       to query string false "End date (YYYY-MM-DD)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.MarketData] "Quotes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{ticker}/quotes [get]
func (h *MarketHandler) GetQuoteHistory(c *gin.Context) {
	var req QuoteHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var from, to time.Time
	if req.From != nil {
		from = *req.From
	}
	if req.To != nil {
		to = *req.To
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must not be before from"))
		return
	}

	result, err := h.marketService.GetQuoteHistory(c.Param("ticker"), from, to, req.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAssetPrices returns the latest price for each crypto asset
// @Summary     Latest asset prices
// @Description Get the most recent recorded price for each tracked asset
// @Tags        market
// @Produce     json
// @Success     200 {object} map[string]int64 "Prices in cents by asset"
// @Router      /assets/prices [get]
func (h *MarketHandler) GetAssetPrices(c *gin.Context) {
	prices, err := h.marketService.GetLatestAssetPrices()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// GetAssetPriceHistory returns price history for one asset
// @Summary     Asset price history
// @Description Get recorded prices for one asset, newest first
// @Tags        market
// @Produce     json
// @Param       asset path string true "Asset symbol (BTC, ETH, SOL)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.AssetPrice] "Prices"
// @Failure     404 {object} ErrorResponse "No price data"
// @Router      /assets/{asset}/prices [get]
func (h *MarketHandler) GetAssetPriceHistory(c *gin.Context) {
	asset := models.CryptoAsset(c.Param("asset"))
	switch asset {
	case models.CryptoAssetBTC, models.CryptoAssetETH, models.CryptoAssetSOL:
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unsupported asset"))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.marketService.GetAssetPriceHistory(asset, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// IngestQuotes records a batch of stock quotes
// @Summary     Ingest quotes
// @Description Record a batch of stock quote snapshots from the data pipeline
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Param       request body IngestQuotesRequest true "Quote batch"
// @Success     200 {object} map[string]int "Recorded count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /pipeline/quotes [post]
func (h *MarketHandler) IngestQuotes(c *gin.Context) {
	var req IngestQuotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.QuoteInput, 0, len(req.Quotes))
	for _, q := range req.Quotes {
		inputs = append(inputs, services.QuoteInput{
			Ticker:     q.Ticker,
			Price:      q.Price,
			DayHigh:    q.DayHigh,
			DayLow:     q.DayLow,
			Volume:     q.Volume,
			RecordedAt: q.RecordedAt,
		})
	}

	count, err := h.marketService.RecordQuotes(inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	for _, q := range req.Quotes {
		h.analyticsService.Invalidate(q.Ticker)
	}
	c.JSON(http.StatusOK, gin.H{"recorded": count})
}

// IngestAssetPrices records a batch of crypto asset prices
// @Summary     Ingest asset prices
// @Description Record a batch of crypto spot prices from the data pipeline
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Param       request body IngestAssetPricesRequest true "Price batch"
// @Success     200 {object} map[string]int "Recorded count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /pipeline/asset-prices [post]
func (h *MarketHandler) IngestAssetPrices(c *gin.Context) {
	var req IngestAssetPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.AssetPriceInput, 0, len(req.Prices))
	for _, p := range req.Prices {
		inputs = append(inputs, services.AssetPriceInput{
			Asset:      models.CryptoAsset(p.Asset),
			Price:      p.Price,
			RecordedAt: p.RecordedAt,
		})
	}

	count, err := h.marketService.RecordAssetPrices(inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": count})
}
