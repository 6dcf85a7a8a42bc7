package models

import "time"

// CapitalStructure holds a company's share counts and dilutive instruments.
// One row per company.
type CapitalStructure struct {
	Base
	CompanyID            uint  `gorm:"not null;uniqueIndex" json:"company_id"`
	BasicShares          int64 `gorm:"type:bigint" json:"basic_shares"`
	DilutedShares        int64 `gorm:"type:bigint" json:"diluted_shares"`
	FloatShares          int64 `gorm:"type:bigint" json:"float_shares"`
	InsiderShares        int64 `gorm:"type:bigint" json:"insider_shares"`
	InstitutionalShares  int64 `gorm:"type:bigint" json:"institutional_shares"`
	WeightedAvgShares    int64 `gorm:"type:bigint" json:"weighted_avg_shares"`
	OptionsOutstanding   int64 `gorm:"type:bigint" json:"options_outstanding"`
	RSUsOutstanding      int64 `gorm:"type:bigint" json:"rsus_outstanding"`
	PSUsOutstanding      int64 `gorm:"type:bigint" json:"psus_outstanding"`

	// Relationships
	ConvertibleDebt []ConvertibleDebt `gorm:"foreignKey:CapitalStructureID;constraint:OnDelete:CASCADE" json:"convertible_debt,omitempty"`
	Warrants        []Warrant         `gorm:"foreignKey:CapitalStructureID;constraint:OnDelete:CASCADE" json:"warrants,omitempty"`
}

// ConvertibleDebt represents a convertible note issued by a company.
type ConvertibleDebt struct {
	Base
	CapitalStructureID uint      `gorm:"not null;index" json:"capital_structure_id"`
	Principal          int64     `gorm:"type:bigint;not null" json:"principal"`
	CouponRate         float64   `json:"coupon_rate"`
	ConversionPrice    int64     `gorm:"type:bigint" json:"conversion_price"`
	ConversionRatio    float64   `json:"conversion_ratio"`
	IssueDate          time.Time `gorm:"not null" json:"issue_date"`
	MaturityDate       time.Time `gorm:"not null" json:"maturity_date"`
}

// Warrant represents an outstanding warrant issuance.
type Warrant struct {
	Base
	CapitalStructureID uint      `gorm:"not null;index" json:"capital_structure_id"`
	StrikePrice        int64     `gorm:"type:bigint;not null" json:"strike_price"`
	Count              int64     `gorm:"type:bigint;not null" json:"count"`
	Exercisable        bool      `gorm:"default:true" json:"exercisable"`
	IssueDate          time.Time `gorm:"not null" json:"issue_date"`
	ExpirationDate     time.Time `gorm:"not null" json:"expiration_date"`
}
