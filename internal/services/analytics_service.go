package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"datapi/internal/analytics"
	"datapi/internal/cache"
	apperrors "datapi/internal/errors"
	"datapi/internal/logger"
	"datapi/internal/models"
)

const (
	reportCacheTTL = 5 * time.Minute

	// Quote snapshots used for volatility and beta estimation.
	riskWindow = 90

	// Annualization factor for daily return volatility.
	tradingDaysPerYear = 252
)

// analyticsService assembles company facts from storage and runs the pure
// analytics functions over them, caching report responses per ticker/format.
type analyticsService struct {
	db    *gorm.DB
	store cache.Store
}

// NewAnalyticsService creates a new AnalyticsServicer backed by the given
// cache store.
func NewAnalyticsService(db *gorm.DB, store cache.Store) AnalyticsServicer {
	return &analyticsService{db: db, store: store}
}

func reportCacheKey(ticker string, format analytics.ReportFormat) string {
	return fmt.Sprintf("analytics:%s:%s", normalizeTicker(ticker), format)
}

// GetReport builds the requested report variant for a ticker, serving from
// cache when a fresh copy exists. Cache failures degrade to a direct build.
func (s *analyticsService) GetReport(ticker string, format analytics.ReportFormat) (analytics.Report, error) {
	switch format {
	case analytics.FormatSummary, analytics.FormatScorecard, analytics.FormatDetailed:
	default:
		format = analytics.FormatSummary
	}

	ctx := context.Background()
	key := reportCacheKey(ticker, format)
	if cached, err := s.store.Get(ctx, key); err == nil {
		if report, decodeErr := decodeReport(format, []byte(cached)); decodeErr == nil {
			return report, nil
		}
		// Stale or unreadable entry, drop it and rebuild.
		_ = s.store.Delete(ctx, key)
	}

	inputs, err := s.buildInputs(ticker)
	if err != nil {
		return nil, err
	}
	report := analytics.BuildReport(format, *inputs)

	if encoded, encodeErr := json.Marshal(report); encodeErr == nil {
		if setErr := s.store.Set(ctx, key, string(encoded), reportCacheTTL); setErr != nil {
			logger.Get().Warnw("failed to cache analytics report", "ticker", ticker, "error", setErr)
		}
	}
	return report, nil
}

// RunScenarios recomputes valuation metrics under hypothetical asset prices.
// Scenario results are never cached.
func (s *analyticsService) RunScenarios(ticker string, scenarios []analytics.Scenario) ([]analytics.ScenarioResult, error) {
	if len(scenarios) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "At least one scenario is required")
	}

	inputs, err := s.buildInputs(ticker)
	if err != nil {
		return nil, err
	}
	return analytics.RunScenarios(inputs.Facts, inputs.Prices, scenarios), nil
}

// Invalidate drops cached reports for a ticker after a write.
func (s *analyticsService) Invalidate(ticker string) {
	ctx := context.Background()
	for _, format := range []analytics.ReportFormat{
		analytics.FormatSummary, analytics.FormatScorecard, analytics.FormatDetailed,
	} {
		if err := s.store.Delete(ctx, reportCacheKey(ticker, format)); err != nil {
			logger.Get().Warnw("failed to invalidate analytics cache", "ticker", ticker, "error", err)
		}
	}
}

func decodeReport(format analytics.ReportFormat, data []byte) (analytics.Report, error) {
	switch format {
	case analytics.FormatScorecard:
		var r analytics.ScorecardReport
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case analytics.FormatDetailed:
		var r analytics.DetailedReport
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		var r analytics.SummaryReport
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	}
}

// buildInputs loads everything the analytics package needs for one company.
func (s *analyticsService) buildInputs(ticker string) (*analytics.ReportInputs, error) {
	var company models.Company
	if err := s.db.Where("ticker = ?", normalizeTicker(ticker)).
		Preload("Holdings").First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	assetPrices, err := getLatestAssetPrices(s.db)
	if err != nil {
		return nil, err
	}
	prices := make(analytics.PriceSet, len(assetPrices))
	for asset, price := range assetPrices {
		prices[string(asset)] = price
	}

	facts := analytics.CompanyFacts{
		Ticker:             company.Ticker,
		SharesOutstanding:  company.SharesOutstanding,
		ShareholdersEquity: company.ShareholdersEquity,
		TotalDebt:          company.TotalDebt,
		MarketCap:          company.MarketCap,
		OperatingRevenue:   company.OperatingRevenue,
		OperatingExpenses:  company.OperatingExpenses,
		CashBurn:           company.CashBurn,
		TreasuryFocused:    company.TreasuryFocused,
	}
	for _, h := range company.Holdings {
		facts.Holdings = append(facts.Holdings, analytics.HoldingFacts{
			Asset:        string(h.Asset),
			Amount:       h.Amount,
			TotalCost:    h.TotalCost,
			StakingYield: h.StakingYield,
			StakedAmount: h.StakedAmount,
		})
	}

	quotes, err := s.recentQuotes(company.ID)
	if err != nil {
		return nil, err
	}
	if len(quotes) > 0 {
		facts.StockPrice = quotes[0].Price
	}

	inputs := &analytics.ReportInputs{
		Facts:  facts,
		Prices: prices,
		Risk:   s.riskInputs(quotes),
	}
	s.capitalInputs(&company, facts, prices, quotes, inputs)
	return inputs, nil
}

// recentQuotes returns the company's quote snapshots, newest first, capped
// at the risk estimation window.
func (s *analyticsService) recentQuotes(companyID uint) ([]models.MarketData, error) {
	var quotes []models.MarketData
	if err := s.db.Where("company_id = ?", companyID).
		Order("recorded_at DESC").Limit(riskWindow).Find(&quotes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return quotes, nil
}

// riskInputs estimates annualized volatility from the quote history and beta
// against BTC. With too little history both default to neutral values.
func (s *analyticsService) riskInputs(quotes []models.MarketData) analytics.RiskInputs {
	inputs := analytics.RiskInputs{Beta: 1, Volatility: 0}

	stockVol := annualizedVolatility(quotePrices(quotes))
	if stockVol == 0 {
		return inputs
	}
	inputs.Volatility = stockVol

	var btcHistory []models.AssetPrice
	if err := s.db.Where("asset = ?", models.CryptoAssetBTC).
		Order("recorded_at DESC").Limit(riskWindow).Find(&btcHistory).Error; err != nil {
		logger.Get().Warnw("failed to load BTC history for beta", "error", err)
		return inputs
	}
	btcPrices := make([]int64, 0, len(btcHistory))
	for _, p := range btcHistory {
		btcPrices = append(btcPrices, p.Price)
	}
	if btcVol := annualizedVolatility(btcPrices); btcVol > 0 {
		inputs.Beta = stockVol / btcVol
	}
	return inputs
}

func quotePrices(quotes []models.MarketData) []int64 {
	prices := make([]int64, 0, len(quotes))
	for _, q := range quotes {
		prices = append(prices, q.Price)
	}
	return prices
}

// annualizedVolatility computes the standard deviation of simple returns
// over a newest-first price series, annualized. Fewer than three points
// yields zero.
func annualizedVolatility(prices []int64) float64 {
	if len(prices) < 3 {
		return 0
	}

	// Series is newest first; returns are computed oldest to newest.
	returns := make([]float64, 0, len(prices)-1)
	for i := len(prices) - 1; i > 0; i-- {
		prev := prices[i]
		if prev == 0 {
			continue
		}
		returns = append(returns, float64(prices[i-1]-prev)/float64(prev))
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

// capitalInputs fills the dilution snapshot pair. The baseline uses the
// weighted average share count and the oldest quote in the window; when
// either is missing the baseline stays nil and dilution is indeterminate.
func (s *analyticsService) capitalInputs(company *models.Company, facts analytics.CompanyFacts, prices analytics.PriceSet, quotes []models.MarketData, inputs *analytics.ReportInputs) {
	tv := analytics.TreasuryValue(facts.Holdings, prices)

	var cs models.CapitalStructure
	if err := s.db.Where("company_id = ?", company.ID).First(&cs).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Get().Warnw("failed to load capital structure", "ticker", company.Ticker, "error", err)
		}
		inputs.CapitalCurrent = analytics.CapitalFacts{
			BasicShares:   company.SharesOutstanding,
			DilutedShares: company.SharesOutstanding,
			TreasuryValue: tv,
			StockPrice:    facts.StockPrice,
		}
		return
	}

	inputs.CapitalCurrent = analytics.CapitalFacts{
		BasicShares:   cs.BasicShares,
		DilutedShares: cs.DilutedShares,
		TreasuryValue: tv,
		StockPrice:    facts.StockPrice,
	}

	if cs.WeightedAvgShares == 0 || len(quotes) < 2 {
		return
	}
	var baselineCost int64
	for _, h := range facts.Holdings {
		baselineCost += h.TotalCost
	}
	inputs.CapitalBaseline = &analytics.CapitalFacts{
		BasicShares:   cs.WeightedAvgShares,
		DilutedShares: cs.WeightedAvgShares,
		TreasuryValue: baselineCost,
		StockPrice:    quotes[len(quotes)-1].Price,
	}
}
