// Package provider defines clients for fetching market prices from external
// data sources. Providers are treated as black-box data sources; the
// analytics layer only ever sees recorded prices.
package provider

import (
	"context"
	"fmt"
	"time"
)

// AssetPriceResult is a successfully fetched crypto spot price.
type AssetPriceResult struct {
	Asset      string
	Price      int64 // cents
	RecordedAt time.Time
}

// QuoteResult is a successfully fetched stock quote.
type QuoteResult struct {
	Ticker     string
	Price      int64 // cents
	DayHigh    int64
	DayLow     int64
	Volume     int64
	RecordedAt time.Time
}

// FetchError represents a failed fetch for a specific symbol.
type FetchError struct {
	Symbol string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch price for %s: %v", e.Symbol, e.Err)
}

// AssetPriceProvider fetches current spot prices for crypto assets.
// A provider should return as many prices as possible, even if some fail.
type AssetPriceProvider interface {
	// Name returns the provider's display name (e.g., "CoinGecko").
	Name() string

	// FetchAssetPrices fetches current prices for the given asset symbols.
	FetchAssetPrices(ctx context.Context, assets []string) ([]AssetPriceResult, []FetchError)
}

// QuoteProvider fetches current stock quotes.
type QuoteProvider interface {
	// Name returns the provider's display name (e.g., "Stooq").
	Name() string

	// FetchQuotes fetches current quotes for the given tickers.
	FetchQuotes(ctx context.Context, tickers []string) ([]QuoteResult, []FetchError)
}
