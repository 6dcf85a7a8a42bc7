package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StooqProvider fetches stock quotes from the Stooq CSV quote endpoint.
type StooqProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewStooqProvider creates a new Stooq quote provider. A nil httpClient
// gets a default client with a 15 second timeout.
func NewStooqProvider(httpClient *http.Client) *StooqProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &StooqProvider{
		httpClient: httpClient,
		baseURL:    "https://stooq.com/q/l/",
	}
}

// Name returns the provider's display name.
func (p *StooqProvider) Name() string { return "Stooq" }

// FetchQuotes fetches current quotes for the given tickers. Stooq serves US
// listings under a ".us" suffix; the response is CSV with one row per symbol.
func (p *StooqProvider) FetchQuotes(ctx context.Context, tickers []string) ([]QuoteResult, []FetchError) {
	if len(tickers) == 0 {
		return nil, nil
	}

	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = strings.ToLower(t) + ".us"
	}

	q := url.Values{}
	q.Set("s", strings.Join(symbols, "+"))
	q.Set("f", "sd2t2ohlcv")
	q.Set("h", "")
	q.Set("e", "csv")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, appendAll(nil, tickers, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, appendAll(nil, tickers, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, appendAll(nil, tickers, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	reader := csv.NewReader(resp.Body)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, appendAll(nil, tickers, err)
	}

	now := time.Now()
	var results []QuoteResult
	var fetchErrors []FetchError
	seen := make(map[string]bool, len(tickers))

	for _, rec := range records {
		// Header row: Symbol,Date,Time,Open,High,Low,Close,Volume
		if len(rec) < 8 || rec[0] == "Symbol" {
			continue
		}
		ticker := strings.ToUpper(strings.TrimSuffix(rec[0], ".US"))
		seen[ticker] = true

		closePrice, err := parseCents(rec[6])
		if err != nil {
			fetchErrors = append(fetchErrors, FetchError{Symbol: ticker, Err: fmt.Errorf("unparseable close %q", rec[6])})
			continue
		}
		high, _ := parseCents(rec[4])
		low, _ := parseCents(rec[5])
		volume, _ := strconv.ParseInt(rec[7], 10, 64)

		results = append(results, QuoteResult{
			Ticker:     ticker,
			Price:      closePrice,
			DayHigh:    high,
			DayLow:     low,
			Volume:     volume,
			RecordedAt: now,
		})
	}

	for _, t := range tickers {
		if !seen[strings.ToUpper(t)] {
			fetchErrors = append(fetchErrors, FetchError{Symbol: t, Err: fmt.Errorf("missing from response")})
		}
	}
	return results, fetchErrors
}

// parseCents converts a decimal price string into cents.
func parseCents(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return int64(f*100 + 0.5), nil
}
