package models

import "time"

// MarketData is an immutable stock quote snapshot for a company.
// Time-series data — no Base embed, no soft deletes.
type MarketData struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"not null;index" json:"company_id"`
	Price       int64     `gorm:"type:bigint;not null" json:"price"`
	Change24Pct float64   `json:"change_24h_pct"`
	Volume      int64     `gorm:"type:bigint" json:"volume"`
	DayHigh     int64     `gorm:"type:bigint" json:"day_high"`
	DayLow      int64     `gorm:"type:bigint" json:"day_low"`
	RecordedAt  time.Time `gorm:"not null;index" json:"recorded_at"`

	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// AssetPrice is an immutable spot price snapshot for a crypto asset.
type AssetPrice struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Asset      CryptoAsset `gorm:"not null;index" json:"asset"`
	Price      int64       `gorm:"type:bigint;not null" json:"price"`
	RecordedAt time.Time   `gorm:"not null;index" json:"recorded_at"`
}
