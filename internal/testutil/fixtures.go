package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"datapi/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCompany creates a company with a unique ticker and sensible
// financials.
func CreateTestCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()
	return CreateTestCompanyWithTicker(t, db, fmt.Sprintf("TST%d", nextID()))
}

// CreateTestCompanyWithTicker creates a company with the given ticker.
func CreateTestCompanyWithTicker(t *testing.T, db *gorm.DB, ticker string) *models.Company {
	t.Helper()

	company := &models.Company{
		Ticker:             ticker,
		Name:               fmt.Sprintf("Test Company %s", ticker),
		Description:        "A test company holding a crypto treasury",
		Sector:             "Technology",
		MarketCap:          100_000_000_00,  // $100M
		SharesOutstanding:  10_000_000,
		ShareholdersEquity: 50_000_000_00, // $50M
		TotalDebt:          10_000_000_00, // $10M
		OperatingRevenue:   20_000_000_00,
		OperatingExpenses:  15_000_000_00,
		TreasuryFocused:    true,
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}
	return company
}

// CreateTestHolding creates a BTC holding of 100 units at $50,000 each.
func CreateTestHolding(t *testing.T, db *gorm.DB, companyID uint) *models.TreasuryHolding {
	t.Helper()
	return CreateTestHoldingForAsset(t, db, companyID, models.CryptoAssetBTC, 100, 50_000_00)
}

// CreateTestHoldingForAsset creates a holding with the given asset, amount,
// and cost basis per unit (in cents).
func CreateTestHoldingForAsset(t *testing.T, db *gorm.DB, companyID uint, asset models.CryptoAsset, amount float64, costBasis int64) *models.TreasuryHolding {
	t.Helper()

	holding := &models.TreasuryHolding{
		CompanyID:    companyID,
		Asset:        asset,
		Amount:       amount,
		AvgCostBasis: costBasis,
		TotalCost:    int64(amount * float64(costBasis)),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestAssetPrice records a price snapshot for an asset.
func CreateTestAssetPrice(t *testing.T, db *gorm.DB, asset models.CryptoAsset, price int64) *models.AssetPrice {
	t.Helper()

	ap := &models.AssetPrice{
		Asset:      asset,
		Price:      price,
		RecordedAt: time.Now(),
	}
	if err := db.Create(ap).Error; err != nil {
		t.Fatalf("failed to create test asset price: %v", err)
	}
	return ap
}

// CreateTestQuote records a stock quote snapshot for a company.
func CreateTestQuote(t *testing.T, db *gorm.DB, companyID uint, price int64, recordedAt time.Time) *models.MarketData {
	t.Helper()

	quote := &models.MarketData{
		CompanyID:  companyID,
		Price:      price,
		Volume:     1_000_000,
		DayHigh:    price,
		DayLow:     price,
		RecordedAt: recordedAt,
	}
	if err := db.Create(quote).Error; err != nil {
		t.Fatalf("failed to create test quote: %v", err)
	}
	return quote
}

// CreateTestCapitalStructure creates a capital structure for a company.
func CreateTestCapitalStructure(t *testing.T, db *gorm.DB, companyID uint) *models.CapitalStructure {
	t.Helper()

	cs := &models.CapitalStructure{
		CompanyID:         companyID,
		BasicShares:       10_000_000,
		DilutedShares:     12_000_000,
		WeightedAvgShares: 9_000_000,
	}
	if err := db.Create(cs).Error; err != nil {
		t.Fatalf("failed to create test capital structure: %v", err)
	}
	return cs
}

// CreateTestAdminUser creates an active admin user with password
// "password123" and a unique email.
func CreateTestAdminUser(t *testing.T, db *gorm.DB, role models.AdminRole) *models.AdminUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.AdminUser{
		Email:    fmt.Sprintf("admin%d@test.com", nextID()),
		Password: string(hash),
		Name:     "Test Admin",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test admin user: %v", err)
	}
	return user
}
