package analytics

// ReportFormat selects the analytics report variant.
type ReportFormat string

const (
	FormatSummary   ReportFormat = "summary"
	FormatScorecard ReportFormat = "scorecard"
	FormatDetailed  ReportFormat = "detailed"
)

// Report is one of SummaryReport, ScorecardReport, or DetailedReport.
type Report interface {
	Format() ReportFormat
}

// SummaryReport carries the headline valuation metrics.
type SummaryReport struct {
	Ticker        string `json:"ticker"`
	TreasuryValue int64  `json:"treasury_value"`
	NAVPerShare   Ratio  `json:"nav_per_share"`
	PremiumToNAV  Ratio  `json:"premium_to_nav"`
	StockPrice    int64  `json:"stock_price"`
}

// Format implements Report.
func (SummaryReport) Format() ReportFormat { return FormatSummary }

// ScorecardReport adds the health and risk rollups to the summary.
type ScorecardReport struct {
	SummaryReport
	Health HealthReport `json:"health"`
	Risk   RiskReport   `json:"risk"`
}

// Format implements Report.
func (ScorecardReport) Format() ReportFormat { return FormatScorecard }

// DetailedReport carries the full metric set.
type DetailedReport struct {
	ScorecardReport
	Concentration []AssetConcentration `json:"concentration"`
	Dilution      DilutionMetrics      `json:"dilution"`
	StakingYield  Ratio                `json:"staking_yield"`
}

// Format implements Report.
func (DetailedReport) Format() ReportFormat { return FormatDetailed }

// ReportInputs bundles everything needed to build any report variant.
type ReportInputs struct {
	Facts           CompanyFacts
	Prices          PriceSet
	Risk            RiskInputs
	CapitalBaseline *CapitalFacts
	CapitalCurrent  CapitalFacts
}

// BuildReport assembles the requested report variant. Unknown formats fall
// back to the summary variant.
func BuildReport(format ReportFormat, in ReportInputs) Report {
	summary := buildSummary(in)
	if format != FormatScorecard && format != FormatDetailed {
		return summary
	}

	scorecard := ScorecardReport{
		SummaryReport: summary,
		Health:        HealthScore(in.Facts, in.Prices),
		Risk:          RiskScore(in.Facts, in.Prices, in.Risk),
	}
	if format != FormatDetailed {
		return scorecard
	}

	return DetailedReport{
		ScorecardReport: scorecard,
		Concentration:   Concentration(in.Facts.Holdings, in.Prices),
		Dilution:        ComputeDilution(in.CapitalCurrent, in.CapitalBaseline),
		StakingYield:    weightedStakingYield(in.Facts.Holdings, in.Prices),
	}
}

func buildSummary(in ReportInputs) SummaryReport {
	tv := TreasuryValue(in.Facts.Holdings, in.Prices)
	nav := NAVPerShare(in.Facts.ShareholdersEquity, tv, in.Facts.TotalDebt, in.Facts.SharesOutstanding)
	return SummaryReport{
		Ticker:        in.Facts.Ticker,
		TreasuryValue: tv,
		NAVPerShare:   nav,
		PremiumToNAV:  PremiumToNAV(in.Facts.StockPrice, nav),
		StockPrice:    in.Facts.StockPrice,
	}
}

// weightedStakingYield averages holding staking yields weighted by current value.
func weightedStakingYield(holdings []HoldingFacts, prices PriceSet) Ratio {
	var weighted, total float64
	for _, h := range holdings {
		value := float64(HoldingValue(h, prices[h.Asset]))
		weighted += h.StakingYield * value
		total += value
	}
	return NewRatio(weighted, total)
}
