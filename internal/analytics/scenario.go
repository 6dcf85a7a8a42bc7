package analytics

import "sort"

// Scenario is a named set of hypothetical asset prices. Assets absent from
// Prices keep their current price.
type Scenario struct {
	Name   string   `json:"name"`
	Prices PriceSet `json:"prices"`
}

// ScenarioResult is the recomputed valuation under one scenario.
type ScenarioResult struct {
	Name          string `json:"name"`
	TreasuryValue int64  `json:"treasury_value"`
	NAVPerShare   Ratio  `json:"nav_per_share"`
	PremiumToNAV  Ratio  `json:"premium_to_nav"`
	NAVImpactPct  Ratio  `json:"nav_impact_pct"`
}

// RunScenarios recomputes treasury value, NAV per share, and premium under
// each scenario's hypothetical prices, ranked by NAV impact (largest first).
func RunScenarios(f CompanyFacts, current PriceSet, scenarios []Scenario) []ScenarioResult {
	baseNAV := NAVPerShare(f.ShareholdersEquity, TreasuryValue(f.Holdings, current), f.TotalDebt, f.SharesOutstanding)

	results := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		prices := overlay(current, sc.Prices)
		tv := TreasuryValue(f.Holdings, prices)
		nav := NAVPerShare(f.ShareholdersEquity, tv, f.TotalDebt, f.SharesOutstanding)

		r := ScenarioResult{
			Name:          sc.Name,
			TreasuryValue: tv,
			NAVPerShare:   nav,
			PremiumToNAV:  PremiumToNAV(f.StockPrice, nav),
		}
		if baseNAV.Indeterminate || nav.Indeterminate || baseNAV.Value == 0 {
			r.NAVImpactPct = Ratio{Indeterminate: true}
		} else {
			r.NAVImpactPct = Ratio{Value: (nav.Value - baseNAV.Value) / baseNAV.Value * 100}
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		vi, vj := results[i].NAVImpactPct, results[j].NAVImpactPct
		if vi.Indeterminate != vj.Indeterminate {
			return !vi.Indeterminate
		}
		return abs(vi.Value) > abs(vj.Value)
	})
	return results
}

func overlay(base, override PriceSet) PriceSet {
	merged := make(PriceSet, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
