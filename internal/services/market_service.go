package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "datapi/internal/errors"
	"datapi/internal/models"
	"datapi/internal/pagination"
)

// marketService handles market-data business logic.
type marketService struct {
	db             *gorm.DB
	companyService CompanyServicer
}

// NewMarketService creates a new MarketServicer.
func NewMarketService(db *gorm.DB, companyService CompanyServicer) MarketServicer {
	return &marketService{db: db, companyService: companyService}
}

// RecordQuotes inserts stock quote snapshots, resolving tickers to companies.
// Quotes for unknown tickers are skipped; the count of inserted rows is
// returned.
func (s *marketService) RecordQuotes(quotes []QuoteInput) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}

	inserted := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, q := range quotes {
			company, err := s.companyService.GetCompanyByTicker(q.Ticker)
			if err != nil {
				if errors.Is(err, apperrors.ErrCompanyNotFound) {
					continue
				}
				return err
			}
			if q.Price <= 0 {
				continue
			}
			recordedAt := q.RecordedAt
			if recordedAt.IsZero() {
				recordedAt = time.Now()
			}

			// Change vs the previous snapshot, when one exists.
			var prev models.MarketData
			change := 0.0
			prevErr := tx.Where("company_id = ?", company.ID).
				Order("recorded_at DESC").First(&prev).Error
			if prevErr == nil && prev.Price > 0 {
				change = float64(q.Price-prev.Price) / float64(prev.Price) * 100
			} else if prevErr != nil && !errors.Is(prevErr, gorm.ErrRecordNotFound) {
				return apperrors.Wrap(apperrors.ErrInternalServer, prevErr)
			}

			row := &models.MarketData{
				CompanyID:   company.ID,
				Price:       q.Price,
				Change24Pct: change,
				Volume:      q.Volume,
				DayHigh:     q.DayHigh,
				DayLow:      q.DayLow,
				RecordedAt:  recordedAt,
			}
			if txErr := tx.Create(row).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetLatestQuote returns the most recent quote snapshot for a ticker.
func (s *marketService) GetLatestQuote(ticker string) (*models.MarketData, error) {
	company, err := s.companyService.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}

	var quote models.MarketData
	if err := s.db.Where("company_id = ?", company.ID).
		Order("recorded_at DESC").First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuoteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &quote, nil
}

// GetQuoteHistory returns quotes for a ticker within [from, to], newest first.
// Zero times leave that bound open.
func (s *marketService) GetQuoteHistory(ticker string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.MarketData], error) {
	company, err := s.companyService.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.MarketData{}).Where("company_id = ?", company.ID)
	if !from.IsZero() {
		base = base.Where("recorded_at >= ?", from)
	}
	if !to.IsZero() {
		base = base.Where("recorded_at <= ?", to)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var quotes []models.MarketData
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).
		Find(&quotes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(quotes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RecordAssetPrices inserts crypto asset price snapshots and returns the
// count of inserted rows. Entries with non-positive prices are skipped.
func (s *marketService) RecordAssetPrices(prices []AssetPriceInput) (int, error) {
	if len(prices) == 0 {
		return 0, nil
	}

	rows := make([]models.AssetPrice, 0, len(prices))
	for _, p := range prices {
		if p.Price <= 0 {
			continue
		}
		recordedAt := p.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now()
		}
		rows = append(rows, models.AssetPrice{
			Asset:      p.Asset,
			Price:      p.Price,
			RecordedAt: recordedAt,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.db.Create(&rows).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(rows), nil
}

// GetLatestAssetPrices returns the most recent price for each asset.
func (s *marketService) GetLatestAssetPrices() (map[models.CryptoAsset]int64, error) {
	return getLatestAssetPrices(s.db)
}

// GetAssetPriceHistory returns price snapshots for an asset, newest first.
func (s *marketService) GetAssetPriceHistory(asset models.CryptoAsset, page pagination.PageRequest) (*pagination.PageResponse[models.AssetPrice], error) {
	page.Defaults()

	base := s.db.Model(&models.AssetPrice{}).Where("asset = ?", asset)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if totalItems == 0 {
		return nil, apperrors.ErrAssetPriceNotFound
	}

	var rows []models.AssetPrice
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(rows, page.Page, page.PageSize, totalItems)
	return &result, nil
}
