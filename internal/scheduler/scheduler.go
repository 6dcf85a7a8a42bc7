// Package scheduler runs the periodic market-data refresh. On each tick it
// fetches crypto spot prices and stock quotes from the configured providers
// and records them through the market service.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"datapi/internal/logger"
	"datapi/internal/models"
	"datapi/internal/provider"
	"datapi/internal/services"
)

const refreshTimeout = 30 * time.Second

// Refresher orchestrates scheduled price refreshes.
type Refresher struct {
	db            *gorm.DB
	marketService services.MarketServicer
	assetProvider provider.AssetPriceProvider
	quoteProvider provider.QuoteProvider
	cron          *cron.Cron
}

// NewRefresher creates a Refresher. Either provider may be nil, in which
// case that leg of the refresh is skipped.
func NewRefresher(db *gorm.DB, marketService services.MarketServicer, assetProvider provider.AssetPriceProvider, quoteProvider provider.QuoteProvider) *Refresher {
	return &Refresher{
		db:            db,
		marketService: marketService,
		assetProvider: assetProvider,
		quoteProvider: quoteProvider,
		cron:          cron.New(),
	}
}

// Start registers the refresh job on the given cron spec and starts the
// scheduler. An immediate warm-up refresh runs in the background so the
// first requests see fresh prices.
func (r *Refresher) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.RefreshAll); err != nil {
		return err
	}
	r.cron.Start()
	go r.RefreshAll()
	logger.Get().Infow("market data refresh scheduled", "spec", spec)
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// RefreshAll runs both refresh legs once.
func (r *Refresher) RefreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if r.assetProvider != nil {
		r.refreshAssetPrices(ctx)
	}
	if r.quoteProvider != nil {
		r.refreshQuotes(ctx)
	}
}

func (r *Refresher) refreshAssetPrices(ctx context.Context) {
	log := logger.Get()

	assets := []string{
		string(models.CryptoAssetBTC),
		string(models.CryptoAssetETH),
		string(models.CryptoAssetSOL),
	}
	results, fetchErrs := r.assetProvider.FetchAssetPrices(ctx, assets)
	for _, fe := range fetchErrs {
		log.Warnw("asset price fetch failed", "provider", r.assetProvider.Name(), "symbol", fe.Symbol, "error", fe.Err)
	}
	if len(results) == 0 {
		return
	}

	inputs := make([]services.AssetPriceInput, 0, len(results))
	for _, res := range results {
		inputs = append(inputs, services.AssetPriceInput{
			Asset:      models.CryptoAsset(res.Asset),
			Price:      res.Price,
			RecordedAt: res.RecordedAt,
		})
	}
	count, err := r.marketService.RecordAssetPrices(inputs)
	if err != nil {
		log.Errorw("failed to record asset prices", "error", err)
		return
	}
	log.Infow("asset prices refreshed", "provider", r.assetProvider.Name(), "recorded", count)
}

func (r *Refresher) refreshQuotes(ctx context.Context) {
	log := logger.Get()

	tickers, err := r.activeTickers()
	if err != nil {
		log.Errorw("failed to list tickers for quote refresh", "error", err)
		return
	}
	if len(tickers) == 0 {
		return
	}

	results, fetchErrs := r.quoteProvider.FetchQuotes(ctx, tickers)
	for _, fe := range fetchErrs {
		log.Warnw("quote fetch failed", "provider", r.quoteProvider.Name(), "symbol", fe.Symbol, "error", fe.Err)
	}
	if len(results) == 0 {
		return
	}

	inputs := make([]services.QuoteInput, 0, len(results))
	for _, res := range results {
		inputs = append(inputs, services.QuoteInput{
			Ticker:     res.Ticker,
			Price:      res.Price,
			DayHigh:    res.DayHigh,
			DayLow:     res.DayLow,
			Volume:     res.Volume,
			RecordedAt: res.RecordedAt,
		})
	}
	count, err := r.marketService.RecordQuotes(inputs)
	if err != nil {
		log.Errorw("failed to record quotes", "error", err)
		return
	}
	log.Infow("quotes refreshed", "provider", r.quoteProvider.Name(), "recorded", count)
}

func (r *Refresher) activeTickers() ([]string, error) {
	var tickers []string
	err := r.db.Model(&models.Company{}).Pluck("ticker", &tickers).Error
	return tickers, err
}
