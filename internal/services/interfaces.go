package services

import (
	"time"

	"datapi/internal/analytics"
	"datapi/internal/models"
	"datapi/internal/pagination"
)

// CompanyInput holds the fields for creating or updating a company.
type CompanyInput struct {
	Ticker               string
	Name                 string
	Description          string
	Sector               string
	MarketCap            int64
	SharesOutstanding    int64
	ShareholdersEquity   int64
	TotalDebt            int64
	RevenueStreams       string
	OperatingRevenue     int64
	OperatingExpenses    int64
	CashBurn             int64
	TreasuryFocused      bool
	BoardSize            int
	IndependentDirectors int
	FounderCEO           bool
	VotingStructure      string
	AuditFirm            string
}

// CompanyFilter holds optional filter parameters for listing companies.
type CompanyFilter struct {
	Sector          *string
	TreasuryFocused *bool
}

// CompanyServicer defines the contract for company-related business logic.
type CompanyServicer interface {
	CreateCompany(in CompanyInput) (*models.Company, error)
	GetCompanyByTicker(ticker string) (*models.Company, error)
	ListCompanies(page pagination.PageRequest, filter CompanyFilter) (*pagination.PageResponse[models.Company], error)
	UpdateCompany(ticker string, in CompanyInput) (*models.Company, error)
	DeleteCompany(ticker string) error
}

// TreasuryServicer defines the contract for treasury-related business logic.
type TreasuryServicer interface {
	AddHolding(ticker string, asset models.CryptoAsset, amount float64, pricePerUnit int64, fundingMethod string, date *time.Time, notes string) (*models.TreasuryHolding, error)
	GetCompanyHoldings(ticker string) ([]models.TreasuryHolding, error)
	GetHoldingByID(holdingID uint) (*models.TreasuryHolding, error)
	RecordTransaction(holdingID uint, txType models.TreasuryTransactionType, date time.Time, amount float64, pricePerUnit int64, fundingMethod, notes string) (*models.TreasuryTransaction, error)
	GetHoldingTransactions(holdingID uint, page pagination.PageRequest) (*pagination.PageResponse[models.TreasuryTransaction], error)
	DeleteHolding(holdingID uint) error
}

// CapitalStructureInput holds the share-count fields for a capital structure.
type CapitalStructureInput struct {
	BasicShares         int64
	DilutedShares       int64
	FloatShares         int64
	InsiderShares       int64
	InstitutionalShares int64
	WeightedAvgShares   int64
	OptionsOutstanding  int64
	RSUsOutstanding     int64
	PSUsOutstanding     int64
}

// ConvertibleInput holds the fields for a convertible debt issuance.
type ConvertibleInput struct {
	Principal       int64
	CouponRate      float64
	ConversionPrice int64
	ConversionRatio float64
	IssueDate       time.Time
	MaturityDate    time.Time
}

// WarrantInput holds the fields for a warrant issuance.
type WarrantInput struct {
	StrikePrice    int64
	Count          int64
	Exercisable    bool
	IssueDate      time.Time
	ExpirationDate time.Time
}

// CapitalServicer defines the contract for capital-structure business logic.
type CapitalServicer interface {
	UpsertCapitalStructure(ticker string, in CapitalStructureInput) (*models.CapitalStructure, error)
	GetCapitalStructure(ticker string) (*models.CapitalStructure, error)
	AddConvertible(ticker string, in ConvertibleInput) (*models.ConvertibleDebt, error)
	AddWarrant(ticker string, in WarrantInput) (*models.Warrant, error)
	DeleteConvertible(id uint) error
	DeleteWarrant(id uint) error
}

// CompensationInput holds the fields for an executive compensation record.
type CompensationInput struct {
	ExecutiveName string
	Title         string
	Year          int
	CashComp      int64
	StockAwards   int64
	OptionAwards  int64
	CryptoComp    int64
	OtherComp     int64
}

// CompensationServicer defines the contract for executive-compensation logic.
type CompensationServicer interface {
	RecordCompensation(ticker string, in CompensationInput) (*models.ExecutiveCompensation, error)
	ListCompensation(ticker string, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.ExecutiveCompensation], error)
	DeleteCompensation(id uint) error
}

// QuoteInput holds the fields for recording a stock quote.
type QuoteInput struct {
	Ticker     string
	Price      int64
	DayHigh    int64
	DayLow     int64
	Volume     int64
	RecordedAt time.Time
}

// AssetPriceInput holds the fields for recording a crypto asset price.
type AssetPriceInput struct {
	Asset      models.CryptoAsset
	Price      int64
	RecordedAt time.Time
}

// MarketServicer defines the contract for market-data business logic.
type MarketServicer interface {
	RecordQuotes(quotes []QuoteInput) (int, error)
	GetLatestQuote(ticker string) (*models.MarketData, error)
	GetQuoteHistory(ticker string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.MarketData], error)
	RecordAssetPrices(prices []AssetPriceInput) (int, error)
	GetLatestAssetPrices() (map[models.CryptoAsset]int64, error)
	GetAssetPriceHistory(asset models.CryptoAsset, page pagination.PageRequest) (*pagination.PageResponse[models.AssetPrice], error)
}

// AnalyticsServicer defines the contract for derived-analytics reads.
type AnalyticsServicer interface {
	GetReport(ticker string, format analytics.ReportFormat) (analytics.Report, error)
	RunScenarios(ticker string, scenarios []analytics.Scenario) ([]analytics.ScenarioResult, error)
	// Invalidate drops cached reports for a ticker after a write.
	Invalidate(ticker string)
}

// UserServicer defines the contract for admin-user business logic.
type UserServicer interface {
	Bootstrap(email, password string) error
	CreateUser(email, password, name string, role models.AdminRole) (*models.AdminUser, error)
	GetUserByID(id uint) (*models.AdminUser, error)
	AttemptLogin(email, password string) (*models.AdminUser, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}
