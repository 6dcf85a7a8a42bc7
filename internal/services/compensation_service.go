package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "datapi/internal/errors"
	"datapi/internal/models"
	"datapi/internal/pagination"
)

// compensationService handles executive-compensation business logic.
type compensationService struct {
	db             *gorm.DB
	companyService CompanyServicer
}

// NewCompensationService creates a new CompensationServicer.
func NewCompensationService(db *gorm.DB, companyService CompanyServicer) CompensationServicer {
	return &compensationService{db: db, companyService: companyService}
}

// RecordCompensation creates or updates the compensation record keyed by
// (company, executive name, year). The total is recomputed on every write.
func (s *compensationService) RecordCompensation(ticker string, in CompensationInput) (*models.ExecutiveCompensation, error) {
	company, err := s.companyService.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ExecutiveName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Executive name is required")
	}
	if in.Year < 1990 || in.Year > time.Now().Year()+1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Year is out of range")
	}

	comp := &models.ExecutiveCompensation{
		CompanyID:     company.ID,
		ExecutiveName: in.ExecutiveName,
		Title:         in.Title,
		Year:          in.Year,
		CashComp:      in.CashComp,
		StockAwards:   in.StockAwards,
		OptionAwards:  in.OptionAwards,
		CryptoComp:    in.CryptoComp,
		OtherComp:     in.OtherComp,
	}
	comp.ComputeTotal()

	var existing models.ExecutiveCompensation
	findErr := s.db.Where("company_id = ? AND executive_name = ? AND year = ?",
		company.ID, in.ExecutiveName, in.Year).First(&existing).Error
	if findErr == nil {
		comp.ID = existing.ID
		comp.CreatedAt = existing.CreatedAt
		if err := s.db.Model(&existing).Updates(map[string]interface{}{
			"title":         comp.Title,
			"cash_comp":     comp.CashComp,
			"stock_awards":  comp.StockAwards,
			"option_awards": comp.OptionAwards,
			"crypto_comp":   comp.CryptoComp,
			"other_comp":    comp.OtherComp,
			"total_comp":    comp.TotalComp,
		}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return comp, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, findErr)
	}

	if err := s.db.Create(comp).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return comp, nil
}

// ListCompensation returns a paginated list of compensation records for a
// company, most recent year first.
func (s *compensationService) ListCompensation(ticker string, year *int, page pagination.PageRequest) (*pagination.PageResponse[models.ExecutiveCompensation], error) {
	company, err := s.companyService.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.ExecutiveCompensation{}).Where("company_id = ?", company.ID)
	if year != nil {
		base = base.Where("year = ?", *year)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.ExecutiveCompensation
	if err := base.Order("year DESC, total_comp DESC").Scopes(pagination.Paginate(page)).
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteCompensation removes a compensation record.
func (s *compensationService) DeleteCompensation(id uint) error {
	result := s.db.Delete(&models.ExecutiveCompensation{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCompensationNotFound
	}
	return nil
}
