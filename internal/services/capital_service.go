package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "datapi/internal/errors"
	"datapi/internal/models"
)

// capitalService handles capital-structure business logic.
type capitalService struct {
	db             *gorm.DB
	companyService CompanyServicer
}

// NewCapitalService creates a new CapitalServicer.
func NewCapitalService(db *gorm.DB, companyService CompanyServicer) CapitalServicer {
	return &capitalService{db: db, companyService: companyService}
}

// UpsertCapitalStructure creates or replaces the single capital structure row
// for a company.
func (s *capitalService) UpsertCapitalStructure(ticker string, in CapitalStructureInput) (*models.CapitalStructure, error) {
	company, err := s.companyService.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}

	var capital models.CapitalStructure
	findErr := s.db.Where("company_id = ?", company.ID).First(&capital).Error
	if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, findErr)
	}

	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		capital = models.CapitalStructure{CompanyID: company.ID}
		applyCapitalInput(&capital, in)
		if err := s.db.Create(&capital).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &capital, nil
	}

	applyCapitalInput(&capital, in)
	if err := s.db.Model(&capital).Updates(map[string]interface{}{
		"basic_shares":         in.BasicShares,
		"diluted_shares":       in.DilutedShares,
		"float_shares":         in.FloatShares,
		"insider_shares":       in.InsiderShares,
		"institutional_shares": in.InstitutionalShares,
		"weighted_avg_shares":  in.WeightedAvgShares,
		"options_outstanding":  in.OptionsOutstanding,
		"rsus_outstanding":     in.RSUsOutstanding,
		"psus_outstanding":     in.PSUsOutstanding,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &capital, nil
}

// GetCapitalStructure returns a company's capital structure with its
// convertible debt and warrants preloaded.
func (s *capitalService) GetCapitalStructure(ticker string) (*models.CapitalStructure, error) {
	company, err := s.companyService.GetCompanyByTicker(ticker)
	if err != nil {
		return nil, err
	}

	var capital models.CapitalStructure
	if err := s.db.Preload("ConvertibleDebt").Preload("Warrants").
		Where("company_id = ?", company.ID).First(&capital).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCapitalStructureNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &capital, nil
}

// AddConvertible records a convertible debt issuance under a company's
// capital structure.
func (s *capitalService) AddConvertible(ticker string, in ConvertibleInput) (*models.ConvertibleDebt, error) {
	capital, err := s.GetCapitalStructure(ticker)
	if err != nil {
		return nil, err
	}
	if in.Principal <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Principal must be positive")
	}
	if !in.MaturityDate.After(in.IssueDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Maturity date must be after issue date")
	}

	debt := &models.ConvertibleDebt{
		CapitalStructureID: capital.ID,
		Principal:          in.Principal,
		CouponRate:         in.CouponRate,
		ConversionPrice:    in.ConversionPrice,
		ConversionRatio:    in.ConversionRatio,
		IssueDate:          in.IssueDate,
		MaturityDate:       in.MaturityDate,
	}
	if err := s.db.Create(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

// AddWarrant records a warrant issuance under a company's capital structure.
func (s *capitalService) AddWarrant(ticker string, in WarrantInput) (*models.Warrant, error) {
	capital, err := s.GetCapitalStructure(ticker)
	if err != nil {
		return nil, err
	}
	if in.Count <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Count must be positive")
	}
	if !in.ExpirationDate.After(in.IssueDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Expiration date must be after issue date")
	}

	warrant := &models.Warrant{
		CapitalStructureID: capital.ID,
		StrikePrice:        in.StrikePrice,
		Count:              in.Count,
		Exercisable:        in.Exercisable,
		IssueDate:          in.IssueDate,
		ExpirationDate:     in.ExpirationDate,
	}
	if err := s.db.Create(warrant).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return warrant, nil
}

// DeleteConvertible removes a convertible debt record.
func (s *capitalService) DeleteConvertible(id uint) error {
	result := s.db.Delete(&models.ConvertibleDebt{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConvertibleNotFound
	}
	return nil
}

// DeleteWarrant removes a warrant record.
func (s *capitalService) DeleteWarrant(id uint) error {
	result := s.db.Delete(&models.Warrant{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrWarrantNotFound
	}
	return nil
}

func applyCapitalInput(c *models.CapitalStructure, in CapitalStructureInput) {
	c.BasicShares = in.BasicShares
	c.DilutedShares = in.DilutedShares
	c.FloatShares = in.FloatShares
	c.InsiderShares = in.InsiderShares
	c.InstitutionalShares = in.InstitutionalShares
	c.WeightedAvgShares = in.WeightedAvgShares
	c.OptionsOutstanding = in.OptionsOutstanding
	c.RSUsOutstanding = in.RSUsOutstanding
	c.PSUsOutstanding = in.PSUsOutstanding
}
