// Package errors provides custom error types for the DAT Analytics API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrRateLimited    = &AppError{Code: "RATE_LIMITED", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Admin user errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Company errors.
var (
	ErrCompanyNotFound = &AppError{Code: "COMPANY_NOT_FOUND", Message: "Company not found", StatusCode: http.StatusNotFound}
	ErrDuplicateTicker = &AppError{Code: "DUPLICATE_TICKER", Message: "A company with this ticker already exists", StatusCode: http.StatusConflict}
)

// Treasury errors.
var (
	ErrHoldingNotFound      = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Treasury holding not found", StatusCode: http.StatusNotFound}
	ErrDuplicateHolding     = &AppError{Code: "DUPLICATE_HOLDING", Message: "Company already holds this asset", StatusCode: http.StatusConflict}
	ErrTransactionNotFound  = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Treasury transaction not found", StatusCode: http.StatusNotFound}
	ErrInsufficientHoldings = &AppError{Code: "INSUFFICIENT_HOLDINGS", Message: "Insufficient holdings for this sale", StatusCode: http.StatusBadRequest}
	ErrInsufficientUnstaked = &AppError{Code: "INSUFFICIENT_UNSTAKED", Message: "Insufficient unstaked amount for this stake", StatusCode: http.StatusBadRequest}
	ErrInsufficientStaked   = &AppError{Code: "INSUFFICIENT_STAKED", Message: "Insufficient staked amount for this unstake", StatusCode: http.StatusBadRequest}
)

// Capital structure errors.
var (
	ErrCapitalStructureNotFound = &AppError{Code: "CAPITAL_STRUCTURE_NOT_FOUND", Message: "Capital structure not found", StatusCode: http.StatusNotFound}
	ErrConvertibleNotFound      = &AppError{Code: "CONVERTIBLE_NOT_FOUND", Message: "Convertible debt not found", StatusCode: http.StatusNotFound}
	ErrWarrantNotFound          = &AppError{Code: "WARRANT_NOT_FOUND", Message: "Warrant not found", StatusCode: http.StatusNotFound}
)

// Compensation errors.
var (
	ErrCompensationNotFound = &AppError{Code: "COMPENSATION_NOT_FOUND", Message: "Compensation record not found", StatusCode: http.StatusNotFound}
)

// Market data errors.
var (
	ErrQuoteNotFound      = &AppError{Code: "QUOTE_NOT_FOUND", Message: "No market data for this ticker", StatusCode: http.StatusNotFound}
	ErrAssetPriceNotFound = &AppError{Code: "ASSET_PRICE_NOT_FOUND", Message: "No price data for this asset", StatusCode: http.StatusNotFound}
)
