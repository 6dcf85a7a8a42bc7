package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "datapi/internal/errors"
	"datapi/internal/models"
	"datapi/internal/pagination"
)

// companyService handles company-related business logic.
type companyService struct {
	db *gorm.DB
}

// NewCompanyService creates a new CompanyServicer.
func NewCompanyService(db *gorm.DB) CompanyServicer {
	return &companyService{db: db}
}

// CreateCompany creates a new company record. The ticker is normalized to
// uppercase and checked for duplicates before the insert.
func (s *companyService) CreateCompany(in CompanyInput) (*models.Company, error) {
	ticker := normalizeTicker(in.Ticker)
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Description is required")
	}
	if strings.TrimSpace(in.Sector) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Sector is required")
	}

	company := companyFromInput(in)
	company.Ticker = ticker

	if err := s.db.Create(company).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateTicker
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return company, nil
}

// GetCompanyByTicker returns a company by its ticker (case-insensitive).
func (s *companyService) GetCompanyByTicker(ticker string) (*models.Company, error) {
	var company models.Company
	if err := s.db.Where("ticker = ?", normalizeTicker(ticker)).
		First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &company, nil
}

// ListCompanies returns a paginated list of companies ordered by ticker.
func (s *companyService) ListCompanies(page pagination.PageRequest, filter CompanyFilter) (*pagination.PageResponse[models.Company], error) {
	page.Defaults()

	base := s.db.Model(&models.Company{})
	if filter.Sector != nil {
		base = base.Where("sector = ?", *filter.Sector)
	}
	if filter.TreasuryFocused != nil {
		base = base.Where("treasury_focused = ?", *filter.TreasuryFocused)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var companies []models.Company
	if err := base.Order("ticker ASC").Scopes(pagination.Paginate(page)).
		Find(&companies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(companies, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateCompany updates a company identified by ticker. The ticker itself is
// immutable; the input's ticker field is ignored.
func (s *companyService) UpdateCompany(ticker string, in CompanyInput) (*models.Company, error) {
	company, err := s.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}

	updated := companyFromInput(in)
	updated.ID = company.ID
	updated.Ticker = company.Ticker
	updated.CreatedAt = company.CreatedAt

	if err := s.db.Model(company).Select("*").Omit("id", "ticker", "created_at", "deleted_at").
		Updates(updated).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetCompanyByTicker(ticker)
}

// DeleteCompany deletes a company and all dependent rows.
func (s *companyService) DeleteCompany(ticker string) error {
	company, err := s.GetCompanyByTicker(ticker)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var holdingIDs []uint
		if txErr := tx.Model(&models.TreasuryHolding{}).Where("company_id = ?", company.ID).
			Pluck("id", &holdingIDs).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if len(holdingIDs) > 0 {
			if txErr := tx.Where("holding_id IN ?", holdingIDs).
				Delete(&models.TreasuryTransaction{}).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		}
		if txErr := tx.Where("company_id = ?", company.ID).
			Delete(&models.TreasuryHolding{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		var capital models.CapitalStructure
		capErr := tx.Where("company_id = ?", company.ID).First(&capital).Error
		if capErr == nil {
			if txErr := tx.Where("capital_structure_id = ?", capital.ID).
				Delete(&models.ConvertibleDebt{}).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
			if txErr := tx.Where("capital_structure_id = ?", capital.ID).
				Delete(&models.Warrant{}).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
			if txErr := tx.Delete(&capital).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		} else if !errors.Is(capErr, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, capErr)
		}

		if txErr := tx.Where("company_id = ?", company.ID).
			Delete(&models.ExecutiveCompensation{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Where("company_id = ?", company.ID).
			Delete(&models.MarketData{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if txErr := tx.Delete(company).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	return err
}

// companyFromInput maps an input struct onto a model.
func companyFromInput(in CompanyInput) *models.Company {
	return &models.Company{
		Ticker:               in.Ticker,
		Name:                 in.Name,
		Description:          in.Description,
		Sector:               in.Sector,
		MarketCap:            in.MarketCap,
		SharesOutstanding:    in.SharesOutstanding,
		ShareholdersEquity:   in.ShareholdersEquity,
		TotalDebt:            in.TotalDebt,
		RevenueStreams:       in.RevenueStreams,
		OperatingRevenue:     in.OperatingRevenue,
		OperatingExpenses:    in.OperatingExpenses,
		CashBurn:             in.CashBurn,
		TreasuryFocused:      in.TreasuryFocused,
		BoardSize:            in.BoardSize,
		IndependentDirectors: in.IndependentDirectors,
		FounderCEO:           in.FounderCEO,
		VotingStructure:      in.VotingStructure,
		AuditFirm:            in.AuditFirm,
	}
}

// normalizeTicker canonicalizes tickers for storage and lookup.
func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
