package models

import "time"

// CryptoAsset represents a supported treasury asset symbol.
type CryptoAsset string

const (
	CryptoAssetBTC CryptoAsset = "BTC"
	CryptoAssetETH CryptoAsset = "ETH"
	CryptoAssetSOL CryptoAsset = "SOL"
)

// TreasuryHolding represents a company's position in a single crypto asset.
// CurrentValue and UnrealizedGain are derived at query time from the latest
// asset price and are never persisted.
type TreasuryHolding struct {
	Base
	CompanyID    uint        `gorm:"not null;index" json:"company_id"`
	Asset        CryptoAsset `gorm:"not null" json:"asset"`
	Amount       float64     `gorm:"not null" json:"amount"`
	AvgCostBasis int64       `gorm:"type:bigint;not null" json:"avg_cost_basis"`
	TotalCost    int64       `gorm:"type:bigint;not null" json:"total_cost"`
	StakingYield float64     `json:"staking_yield,omitempty"`
	StakedAmount float64     `json:"staked_amount,omitempty"`

	CurrentPrice      int64   `gorm:"-" json:"current_price"`
	CurrentValue      int64   `gorm:"-" json:"current_value"`
	UnrealizedGain    int64   `gorm:"-" json:"unrealized_gain"`
	UnrealizedGainPct float64 `gorm:"-" json:"unrealized_gain_pct"`

	// Relationships
	Company      Company               `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Transactions []TreasuryTransaction `gorm:"foreignKey:HoldingID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// TreasuryTransactionType represents the type of treasury transaction.
type TreasuryTransactionType string

const (
	TreasuryTransactionPurchase TreasuryTransactionType = "purchase"
	TreasuryTransactionSale     TreasuryTransactionType = "sale"
	TreasuryTransactionStake    TreasuryTransactionType = "stake"
	TreasuryTransactionUnstake  TreasuryTransactionType = "unstake"
)

// TreasuryTransaction is a single entry in a holding's append-only ledger.
type TreasuryTransaction struct {
	Base
	HoldingID     uint                    `gorm:"not null;index" json:"holding_id"`
	Type          TreasuryTransactionType `gorm:"not null" json:"type"`
	Date          time.Time               `gorm:"not null" json:"date"`
	Amount        float64                 `gorm:"not null" json:"amount"`
	PricePerUnit  int64                   `gorm:"type:bigint;not null" json:"price_per_unit"`
	TotalCost     int64                   `gorm:"type:bigint;not null" json:"total_cost"`
	FundingMethod string                  `json:"funding_method,omitempty"`
	Notes         string                  `json:"notes,omitempty"`

	// Relationships
	Holding TreasuryHolding `gorm:"foreignKey:HoldingID" json:"holding,omitempty"`
}
