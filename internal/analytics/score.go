package analytics

// Sub-score weights for the financial health rollup.
const (
	weightLiquidity  = 0.20
	weightSolvency   = 0.25
	weightEfficiency = 0.20
	weightGrowth     = 0.15
	weightTreasury   = 0.20
)

// HealthComponents holds the 0–100 sub-scores feeding the health rollup.
type HealthComponents struct {
	Liquidity  float64 `json:"liquidity"`
	Solvency   float64 `json:"solvency"`
	Efficiency float64 `json:"efficiency"`
	Growth     float64 `json:"growth"`
	Treasury   float64 `json:"treasury"`
}

// HealthReport is the weighted financial-health rollup for a company.
type HealthReport struct {
	Score      float64          `json:"score"`
	Grade      string           `json:"grade"`
	Components HealthComponents `json:"components"`
	Strengths  []string         `json:"strengths"`
	Weaknesses []string         `json:"weaknesses"`
}

// HealthScore computes the 0–100 financial health score, letter grade, and
// rule-based strengths/weaknesses for a company.
func HealthScore(f CompanyFacts, prices PriceSet) HealthReport {
	treasuryValue := TreasuryValue(f.Holdings, prices)

	c := HealthComponents{
		Liquidity:  liquidityScore(f, treasuryValue),
		Solvency:   solvencyScore(f),
		Efficiency: efficiencyScore(f),
		Growth:     growthScore(f),
		Treasury:   treasuryScore(f, treasuryValue),
	}

	score := c.Liquidity*weightLiquidity +
		c.Solvency*weightSolvency +
		c.Efficiency*weightEfficiency +
		c.Growth*weightGrowth +
		c.Treasury*weightTreasury

	report := HealthReport{
		Score:      score,
		Grade:      letterGrade(score),
		Components: c,
		Strengths:  []string{},
		Weaknesses: []string{},
	}

	if c.Liquidity >= 70 {
		report.Strengths = append(report.Strengths, "Treasury covers multiple years of cash burn")
	} else if c.Liquidity < 40 {
		report.Weaknesses = append(report.Weaknesses, "Cash burn is high relative to liquid treasury assets")
	}
	if c.Solvency >= 70 {
		report.Strengths = append(report.Strengths, "Low leverage relative to shareholders' equity")
	} else if c.Solvency < 40 {
		report.Weaknesses = append(report.Weaknesses, "Debt load is high relative to equity")
	}
	if c.Efficiency >= 70 {
		report.Strengths = append(report.Strengths, "Operating business is profitable")
	} else if c.Efficiency < 40 {
		report.Weaknesses = append(report.Weaknesses, "Operating expenses exceed operating revenue")
	}
	if c.Treasury >= 70 {
		report.Strengths = append(report.Strengths, "Treasury is a substantial share of market capitalization")
	} else if c.Treasury < 40 && f.TreasuryFocused {
		report.Weaknesses = append(report.Weaknesses, "Treasury is small for a treasury-focused company")
	}

	return report
}

// liquidityScore scores runway: years of cash burn covered by treasury value.
func liquidityScore(f CompanyFacts, treasuryValue int64) float64 {
	if f.CashBurn <= 0 {
		return 100
	}
	runway := float64(treasuryValue) / float64(f.CashBurn)
	return clampScore(runway * 25) // 4+ years of runway scores 100
}

// solvencyScore scores debt relative to equity.
func solvencyScore(f CompanyFacts) float64 {
	if f.ShareholdersEquity <= 0 {
		if f.TotalDebt == 0 {
			return 50
		}
		return 0
	}
	debtToEquity := float64(f.TotalDebt) / float64(f.ShareholdersEquity)
	return clampScore(100 - debtToEquity*50) // D/E of 2.0 scores 0
}

// efficiencyScore scores the operating margin.
func efficiencyScore(f CompanyFacts) float64 {
	if f.OperatingRevenue <= 0 {
		return 0
	}
	margin := float64(f.OperatingRevenue-f.OperatingExpenses) / float64(f.OperatingRevenue)
	return clampScore(50 + margin*100) // break-even scores 50
}

// growthScore scores revenue scale against cash burn.
func growthScore(f CompanyFacts) float64 {
	if f.OperatingRevenue <= 0 {
		return 0
	}
	if f.CashBurn <= 0 {
		return 100
	}
	return clampScore(float64(f.OperatingRevenue) / float64(f.CashBurn) * 50)
}

// treasuryScore scores treasury value relative to market capitalization.
func treasuryScore(f CompanyFacts, treasuryValue int64) float64 {
	if f.MarketCap <= 0 {
		return 0
	}
	ratio := float64(treasuryValue) / float64(f.MarketCap)
	return clampScore(ratio * 125) // treasury at 80% of market cap scores 100
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func letterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 65:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// Risk weights.
const (
	weightConcentrationRisk = 0.35
	weightLiquidityRisk     = 0.25
	weightBetaRisk          = 0.20
	weightVolatilityRisk    = 0.20
)

// RiskInputs carries the market inputs the risk model needs beyond the
// stored company facts.
type RiskInputs struct {
	Beta       float64
	Volatility float64 // annualized, as a fraction (0.8 = 80%)
}

// RiskReport is the weighted risk rollup for a company. Higher is riskier.
type RiskReport struct {
	Score             float64 `json:"score"`
	Level             string  `json:"level"`
	ConcentrationRisk float64 `json:"concentration_risk"`
	LiquidityRisk     float64 `json:"liquidity_risk"`
	BetaRisk          float64 `json:"beta_risk"`
	VolatilityRisk    float64 `json:"volatility_risk"`
}

// RiskScore computes the 0–100 risk score from treasury concentration,
// liquidity, beta, and volatility.
func RiskScore(f CompanyFacts, prices PriceSet, in RiskInputs) RiskReport {
	r := RiskReport{}

	// Concentration: the largest single-asset share of the treasury.
	conc := Concentration(f.Holdings, prices)
	if len(conc) > 0 {
		r.ConcentrationRisk = clampScore(conc[0].Pct)
	}

	// Liquidity: inverse of the liquidity sub-score.
	r.LiquidityRisk = 100 - liquidityScore(f, TreasuryValue(f.Holdings, prices))

	// Beta of 2.0 or above scores 100.
	r.BetaRisk = clampScore(in.Beta * 50)

	// Annualized volatility of 100% scores 100.
	r.VolatilityRisk = clampScore(in.Volatility * 100)

	r.Score = r.ConcentrationRisk*weightConcentrationRisk +
		r.LiquidityRisk*weightLiquidityRisk +
		r.BetaRisk*weightBetaRisk +
		r.VolatilityRisk*weightVolatilityRisk

	switch {
	case r.Score >= 75:
		r.Level = "high"
	case r.Score >= 45:
		r.Level = "moderate"
	default:
		r.Level = "low"
	}
	return r
}
