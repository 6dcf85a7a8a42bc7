// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("crypto_asset", validateCryptoAsset)
		_ = v.RegisterValidation("treasury_tx_type", validateTreasuryTxType)
		_ = v.RegisterValidation("funding_method", validateFundingMethod)
		_ = v.RegisterValidation("admin_role", validateAdminRole)
		_ = v.RegisterValidation("report_format", validateReportFormat)
	}
}

func validateCryptoAsset(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BTC", "ETH", "SOL":
		return true
	}
	return false
}

func validateTreasuryTxType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "purchase", "sale", "stake", "unstake":
		return true
	}
	return false
}

func validateFundingMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "equity", "convertible_debt", "atm_offering", "pipe":
		return true
	}
	return false
}

func validateAdminRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ADMIN", "EDITOR", "VIEWER":
		return true
	}
	return false
}

func validateReportFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "summary", "scorecard", "detailed":
		return true
	}
	return false
}
