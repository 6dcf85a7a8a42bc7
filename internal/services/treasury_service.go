package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "datapi/internal/errors"
	"datapi/internal/models"
	"datapi/internal/pagination"
)

// getLatestAssetPrices fetches the most recent price for each asset from
// asset_prices. Assets with no price entries are not included in the map.
func getLatestAssetPrices(db *gorm.DB) (map[models.CryptoAsset]int64, error) {
	type priceRow struct {
		Asset models.CryptoAsset
		Price int64
	}
	var rows []priceRow

	subq := db.Table("asset_prices").
		Select("asset, MAX(recorded_at) AS max_recorded").
		Group("asset")

	if err := db.Table("asset_prices ap").
		Select("ap.asset, ap.price").
		Joins("INNER JOIN (?) latest ON ap.asset = latest.asset AND ap.recorded_at = latest.max_recorded", subq).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make(map[models.CryptoAsset]int64, len(rows))
	for _, r := range rows {
		result[r.Asset] = r.Price
	}
	return result, nil
}

// valueHolding populates the derived fields on a holding from the latest price.
func valueHolding(h *models.TreasuryHolding, price int64) {
	h.CurrentPrice = price
	h.CurrentValue = int64(h.Amount * float64(price))
	h.UnrealizedGain = h.CurrentValue - h.TotalCost
	if h.TotalCost > 0 {
		h.UnrealizedGainPct = float64(h.UnrealizedGain) / float64(h.TotalCost) * 100
	}
}

// treasuryService handles treasury-related business logic.
type treasuryService struct {
	db             *gorm.DB
	companyService CompanyServicer
}

// NewTreasuryService creates a new TreasuryServicer.
func NewTreasuryService(db *gorm.DB, companyService CompanyServicer) TreasuryServicer {
	return &treasuryService{db: db, companyService: companyService}
}

// AddHolding adds a new treasury holding for a company, recording the initial
// purchase in the same database transaction.
func (s *treasuryService) AddHolding(
	ticker string,
	asset models.CryptoAsset,
	amount float64,
	pricePerUnit int64,
	fundingMethod string,
	date *time.Time,
	notes string,
) (*models.TreasuryHolding, error) {
	company, err := s.companyService.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}
	if pricePerUnit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price per unit must be positive")
	}

	// One holding per asset per company; further purchases go through
	// RecordTransaction.
	var existing models.TreasuryHolding
	findErr := s.db.Where("company_id = ? AND asset = ?", company.ID, asset).First(&existing).Error
	if findErr == nil {
		return nil, apperrors.ErrDuplicateHolding
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, findErr)
	}

	txDate := time.Now()
	if date != nil {
		txDate = *date
	}
	txNotes := "Initial purchase"
	if notes != "" {
		txNotes = notes
	}

	totalCost := int64(amount * float64(pricePerUnit))
	holding := &models.TreasuryHolding{
		CompanyID:    company.ID,
		Asset:        asset,
		Amount:       amount,
		AvgCostBasis: pricePerUnit,
		TotalCost:    totalCost,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(holding).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		invTx := &models.TreasuryTransaction{
			HoldingID:     holding.ID,
			Type:          models.TreasuryTransactionPurchase,
			Date:          txDate,
			Amount:        amount,
			PricePerUnit:  pricePerUnit,
			TotalCost:     totalCost,
			FundingMethod: fundingMethod,
			Notes:         txNotes,
		}
		if txErr := tx.Create(invTx).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prices, err := getLatestAssetPrices(s.db)
	if err != nil {
		return nil, err
	}
	valueHolding(holding, prices[asset])
	return holding, nil
}

// GetCompanyHoldings returns all holdings for a company, valued at the latest
// asset prices.
func (s *treasuryService) GetCompanyHoldings(ticker string) ([]models.TreasuryHolding, error) {
	company, err := s.companyService.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}

	var holdings []models.TreasuryHolding
	if err := s.db.Where("company_id = ?", company.ID).Order("asset ASC").
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prices, err := getLatestAssetPrices(s.db)
	if err != nil {
		return nil, err
	}
	for i := range holdings {
		valueHolding(&holdings[i], prices[holdings[i].Asset])
	}
	return holdings, nil
}

// GetHoldingByID returns a holding valued at the latest asset price.
func (s *treasuryService) GetHoldingByID(holdingID uint) (*models.TreasuryHolding, error) {
	var holding models.TreasuryHolding
	if err := s.db.Preload("Company").First(&holding, holdingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prices, err := getLatestAssetPrices(s.db)
	if err != nil {
		return nil, err
	}
	valueHolding(&holding, prices[holding.Asset])
	return &holding, nil
}

// RecordTransaction appends a treasury transaction and updates the holding's
// aggregates in the same database transaction.
func (s *treasuryService) RecordTransaction(
	holdingID uint,
	txType models.TreasuryTransactionType,
	date time.Time,
	amount float64,
	pricePerUnit int64,
	fundingMethod, notes string,
) (*models.TreasuryTransaction, error) {
	holding, err := s.GetHoldingByID(holdingID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}

	updates := map[string]interface{}{}
	totalCost := int64(amount * float64(pricePerUnit))

	switch txType {
	case models.TreasuryTransactionPurchase:
		newAmount := holding.Amount + amount
		newTotalCost := holding.TotalCost + totalCost
		updates["amount"] = newAmount
		updates["total_cost"] = newTotalCost
		updates["avg_cost_basis"] = int64(float64(newTotalCost) / newAmount)

	case models.TreasuryTransactionSale:
		if amount > holding.Amount-holding.StakedAmount {
			return nil, apperrors.ErrInsufficientHoldings
		}
		// Proportional cost basis reduction; avg cost is unchanged.
		costReduction := int64(float64(holding.TotalCost) * (amount / holding.Amount))
		updates["amount"] = holding.Amount - amount
		updates["total_cost"] = holding.TotalCost - costReduction

	case models.TreasuryTransactionStake:
		if amount > holding.Amount-holding.StakedAmount {
			return nil, apperrors.ErrInsufficientUnstaked
		}
		updates["staked_amount"] = holding.StakedAmount + amount
		totalCost = 0

	case models.TreasuryTransactionUnstake:
		if amount > holding.StakedAmount {
			return nil, apperrors.ErrInsufficientStaked
		}
		updates["staked_amount"] = holding.StakedAmount - amount
		totalCost = 0

	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unsupported transaction type")
	}

	var invTx models.TreasuryTransaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		invTx = models.TreasuryTransaction{
			HoldingID:     holdingID,
			Type:          txType,
			Date:          date,
			Amount:        amount,
			PricePerUnit:  pricePerUnit,
			TotalCost:     totalCost,
			FundingMethod: fundingMethod,
			Notes:         notes,
		}
		if txErr := tx.Create(&invTx).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Model(&models.TreasuryHolding{}).Where("id = ?", holdingID).
			Updates(updates).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &invTx, nil
}

// GetHoldingTransactions returns a paginated list of transactions for a
// holding, newest first.
func (s *treasuryService) GetHoldingTransactions(holdingID uint, page pagination.PageRequest) (*pagination.PageResponse[models.TreasuryTransaction], error) {
	if _, err := s.GetHoldingByID(holdingID); err != nil {
		return nil, err
	}

	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.TreasuryTransaction{}).Where("holding_id = ?", holdingID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.TreasuryTransaction
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteHolding deletes a holding and its transaction ledger.
func (s *treasuryService) DeleteHolding(holdingID uint) error {
	if _, err := s.GetHoldingByID(holdingID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Where("holding_id = ?", holdingID).
			Delete(&models.TreasuryTransaction{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Delete(&models.TreasuryHolding{}, holdingID).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
}
