package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// coinGeckoIDs maps asset symbols to CoinGecko coin IDs.
var coinGeckoIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
}

// CoinGeckoProvider fetches crypto spot prices from the CoinGecko simple
// price endpoint.
type CoinGeckoProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewCoinGeckoProvider creates a new CoinGecko price provider. A nil
// httpClient gets a default client with a 15 second timeout.
func NewCoinGeckoProvider(httpClient *http.Client, apiKey string) *CoinGeckoProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &CoinGeckoProvider{
		httpClient: httpClient,
		baseURL:    "https://api.coingecko.com/api/v3/simple/price",
		apiKey:     apiKey,
	}
}

// Name returns the provider's display name.
func (p *CoinGeckoProvider) Name() string { return "CoinGecko" }

// FetchAssetPrices fetches current USD prices for the given asset symbols.
func (p *CoinGeckoProvider) FetchAssetPrices(ctx context.Context, assets []string) ([]AssetPriceResult, []FetchError) {
	var fetchErrors []FetchError

	ids := make([]string, 0, len(assets))
	mapped := make([]string, 0, len(assets))
	idToSymbol := make(map[string]string, len(assets))
	for _, asset := range assets {
		id, ok := coinGeckoIDs[asset]
		if !ok {
			fetchErrors = append(fetchErrors, FetchError{Symbol: asset, Err: fmt.Errorf("no CoinGecko mapping")})
			continue
		}
		ids = append(ids, id)
		mapped = append(mapped, asset)
		idToSymbol[id] = asset
	}
	if len(ids) == 0 {
		return nil, fetchErrors
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, appendAll(fetchErrors, mapped, err)
	}
	if p.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, appendAll(fetchErrors, mapped, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, appendAll(fetchErrors, mapped, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, appendAll(fetchErrors, mapped, err)
	}

	now := time.Now()
	results := make([]AssetPriceResult, 0, len(ids))
	for id, symbol := range idToSymbol {
		quote, ok := body[id]
		if !ok {
			fetchErrors = append(fetchErrors, FetchError{Symbol: symbol, Err: fmt.Errorf("missing from response")})
			continue
		}
		usd, ok := quote["usd"]
		if !ok || usd <= 0 {
			fetchErrors = append(fetchErrors, FetchError{Symbol: symbol, Err: fmt.Errorf("no usd price in response")})
			continue
		}
		results = append(results, AssetPriceResult{
			Asset:      symbol,
			Price:      int64(usd * 100),
			RecordedAt: now,
		})
	}
	return results, fetchErrors
}

func appendAll(errs []FetchError, symbols []string, err error) []FetchError {
	for _, s := range symbols {
		errs = append(errs, FetchError{Symbol: s, Err: err})
	}
	return errs
}
