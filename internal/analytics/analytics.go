// Package analytics derives presentation metrics from stored company facts
// and current market prices. All functions are pure and perform no I/O.
//
// Monetary values are int64 cents, matching the persistence layer. Every
// ratio with a zero denominator yields Ratio{Value: 0, Indeterminate: true}
// instead of NaN or Inf.
package analytics

import "sort"

// Ratio is a computed ratio or percentage. Indeterminate is set when the
// denominator was zero and the value is a fallback rather than a result.
type Ratio struct {
	Value         float64 `json:"value"`
	Indeterminate bool    `json:"indeterminate,omitempty"`
}

// NewRatio divides num by den, flagging the result when den is zero.
func NewRatio(num, den float64) Ratio {
	if den == 0 {
		return Ratio{Indeterminate: true}
	}
	return Ratio{Value: num / den}
}

// HoldingFacts is the slice of a treasury holding the analytics layer needs.
type HoldingFacts struct {
	Asset        string
	Amount       float64
	TotalCost    int64
	StakingYield float64
	StakedAmount float64
}

// PriceSet maps asset symbols to current prices in cents.
type PriceSet map[string]int64

// CompanyFacts bundles the stored financial facts for one company.
type CompanyFacts struct {
	Ticker             string
	SharesOutstanding  int64
	ShareholdersEquity int64
	TotalDebt          int64
	MarketCap          int64
	StockPrice         int64
	OperatingRevenue   int64
	OperatingExpenses  int64
	CashBurn           int64
	TreasuryFocused    bool
	Holdings           []HoldingFacts
}

// HoldingValue returns the current value of a single holding in cents.
func HoldingValue(h HoldingFacts, price int64) int64 {
	return int64(h.Amount * float64(price))
}

// UnrealizedGain returns the holding's current value minus its total cost.
func UnrealizedGain(h HoldingFacts, price int64) int64 {
	return HoldingValue(h, price) - h.TotalCost
}

// TreasuryValue sums amount × current price across all holdings.
// Holdings with no price in the set contribute zero.
func TreasuryValue(holdings []HoldingFacts, prices PriceSet) int64 {
	var total int64
	for _, h := range holdings {
		total += HoldingValue(h, prices[h.Asset])
	}
	return total
}

// NAVPerShare computes (shareholders' equity + treasury value − total debt)
// divided by shares outstanding, in cents per share.
func NAVPerShare(equity, treasuryValue, totalDebt, sharesOutstanding int64) Ratio {
	return NewRatio(float64(equity+treasuryValue-totalDebt), float64(sharesOutstanding))
}

// PremiumToNAV computes the premium or discount of the stock price over NAV
// per share, as a percentage. Positive means the market prices the stock
// above its asset-backed value.
func PremiumToNAV(stockPrice int64, navPerShare Ratio) Ratio {
	if navPerShare.Indeterminate || navPerShare.Value == 0 {
		return Ratio{Indeterminate: true}
	}
	return Ratio{Value: (float64(stockPrice) - navPerShare.Value) / navPerShare.Value * 100}
}

// AssetConcentration is one asset's share of the total treasury value.
type AssetConcentration struct {
	Asset string  `json:"asset"`
	Value int64   `json:"value"`
	Pct   float64 `json:"pct"`
}

// Concentration returns each holding's share of total treasury value as a
// percentage, ordered largest first. Percentages sum to ~100 when the total
// is positive; with a zero total all percentages are zero.
func Concentration(holdings []HoldingFacts, prices PriceSet) []AssetConcentration {
	total := TreasuryValue(holdings, prices)
	result := make([]AssetConcentration, 0, len(holdings))
	for _, h := range holdings {
		value := HoldingValue(h, prices[h.Asset])
		c := AssetConcentration{Asset: h.Asset, Value: value}
		if total > 0 {
			c.Pct = float64(value) / float64(total) * 100
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Value > result[j].Value })
	return result
}

// CapitalFacts is a share-count snapshot used for dilution math.
type CapitalFacts struct {
	BasicShares   int64
	DilutedShares int64
	TreasuryValue int64
	StockPrice    int64
}

// DilutionMetrics holds period-over-period dilution ratios.
type DilutionMetrics struct {
	ShareGrowthRate        Ratio `json:"share_growth_rate"`
	TreasuryAccretionRate  Ratio `json:"treasury_accretion_rate"`
	DilutionAdjustedReturn Ratio `json:"dilution_adjusted_return"`
}

// ComputeDilution compares the current capital snapshot against a historical
// baseline. With no baseline every metric is indeterminate.
func ComputeDilution(current CapitalFacts, baseline *CapitalFacts) DilutionMetrics {
	if baseline == nil {
		return DilutionMetrics{
			ShareGrowthRate:        Ratio{Indeterminate: true},
			TreasuryAccretionRate:  Ratio{Indeterminate: true},
			DilutionAdjustedReturn: Ratio{Indeterminate: true},
		}
	}

	m := DilutionMetrics{}
	m.ShareGrowthRate = scaleRatio(NewRatio(
		float64(current.DilutedShares-baseline.DilutedShares),
		float64(baseline.DilutedShares)), 100)

	// Treasury per diluted share, period over period.
	curPerShare := NewRatio(float64(current.TreasuryValue), float64(current.DilutedShares))
	basePerShare := NewRatio(float64(baseline.TreasuryValue), float64(baseline.DilutedShares))
	if curPerShare.Indeterminate || basePerShare.Indeterminate || basePerShare.Value == 0 {
		m.TreasuryAccretionRate = Ratio{Indeterminate: true}
	} else {
		m.TreasuryAccretionRate = Ratio{Value: (curPerShare.Value - basePerShare.Value) / basePerShare.Value * 100}
	}

	// Stock return net of share-count growth.
	priceReturn := NewRatio(float64(current.StockPrice-baseline.StockPrice), float64(baseline.StockPrice))
	if priceReturn.Indeterminate || m.ShareGrowthRate.Indeterminate {
		m.DilutionAdjustedReturn = Ratio{Indeterminate: true}
	} else {
		m.DilutionAdjustedReturn = Ratio{Value: priceReturn.Value*100 - m.ShareGrowthRate.Value}
	}

	return m
}

func scaleRatio(r Ratio, factor float64) Ratio {
	if r.Indeterminate {
		return r
	}
	return Ratio{Value: r.Value * factor}
}
