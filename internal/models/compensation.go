package models

// ExecutiveCompensation records one executive's pay for one fiscal year.
// Unique per (company, executive name, year); amounts are cents.
type ExecutiveCompensation struct {
	Base
	CompanyID     uint   `gorm:"not null;uniqueIndex:uq_comp_company_name_year" json:"company_id"`
	ExecutiveName string `gorm:"not null;uniqueIndex:uq_comp_company_name_year" json:"executive_name"`
	Title         string `json:"title,omitempty"`
	Year          int    `gorm:"not null;uniqueIndex:uq_comp_company_name_year" json:"year"`
	CashComp      int64  `gorm:"type:bigint" json:"cash_comp"`
	StockAwards   int64  `gorm:"type:bigint" json:"stock_awards"`
	OptionAwards  int64  `gorm:"type:bigint" json:"option_awards"`
	CryptoComp    int64  `gorm:"type:bigint" json:"crypto_comp"`
	OtherComp     int64  `gorm:"type:bigint" json:"other_comp"`
	TotalComp     int64  `gorm:"type:bigint" json:"total_comp"`
}

// ComputeTotal recalculates the derived total from the components.
func (e *ExecutiveCompensation) ComputeTotal() {
	e.TotalComp = e.CashComp + e.StockAwards + e.OptionAwards + e.CryptoComp + e.OtherComp
}
