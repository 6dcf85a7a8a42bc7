package models

// Company represents a public company holding a cryptocurrency treasury.
// The ticker is the business key and is always stored uppercase.
type Company struct {
	Base
	Ticker             string `gorm:"uniqueIndex;not null" json:"ticker"`
	Name               string `gorm:"not null" json:"name"`
	Description        string `gorm:"not null" json:"description"`
	Sector             string `gorm:"not null" json:"sector"`
	MarketCap          int64  `gorm:"type:bigint" json:"market_cap"`
	SharesOutstanding  int64  `gorm:"type:bigint" json:"shares_outstanding"`
	ShareholdersEquity int64  `gorm:"type:bigint" json:"shareholders_equity"`
	TotalDebt          int64  `gorm:"type:bigint" json:"total_debt"`

	// Business model
	RevenueStreams    string `json:"revenue_streams,omitempty"`
	OperatingRevenue  int64  `gorm:"type:bigint" json:"operating_revenue"`
	OperatingExpenses int64  `gorm:"type:bigint" json:"operating_expenses"`
	CashBurn          int64  `gorm:"type:bigint" json:"cash_burn"`
	TreasuryFocused   bool   `gorm:"default:false" json:"treasury_focused"`

	// Governance
	BoardSize            int    `json:"board_size,omitempty"`
	IndependentDirectors int    `json:"independent_directors,omitempty"`
	FounderCEO           bool   `gorm:"default:false" json:"founder_ceo"`
	VotingStructure      string `json:"voting_structure,omitempty"`
	AuditFirm            string `json:"audit_firm,omitempty"`

	// Relationships
	Holdings         []TreasuryHolding       `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"holdings,omitempty"`
	CapitalStructure *CapitalStructure       `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"capital_structure,omitempty"`
	Compensation     []ExecutiveCompensation `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"compensation,omitempty"`
	MarketData       []MarketData            `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"market_data,omitempty"`
}
