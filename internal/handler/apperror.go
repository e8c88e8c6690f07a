package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount         = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must not be negative"}
	ErrFutureDate            = &AppError{http.StatusBadRequest, "FUTURE_DATE", "Receipt date cannot be in the future"}
	ErrInvalidKind           = &AppError{http.StatusBadRequest, "INVALID_KIND", "Entry kind must be income or expenses"}
	ErrInvalidAccountSide    = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_SIDE", "Account side must be balance or investment"}
	ErrInvalidDimensionRole  = &AppError{http.StatusBadRequest, "INVALID_DIMENSION_ROLE", "Dimension role must be category or counterparty"}
	ErrDimensionKindMismatch = &AppError{http.StatusUnprocessableEntity, "DIMENSION_KIND_MISMATCH", "Dimension kind does not match entry kind"}
	ErrInsufficientFunds     = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrSameAccount           = &AppError{http.StatusUnprocessableEntity, "SAME_ACCOUNT", "Source and destination accounts must differ"}
	ErrSameBank              = &AppError{http.StatusUnprocessableEntity, "SAME_BANK", "Source and destination banks must differ"}
	ErrEmailTaken            = &AppError{http.StatusConflict, "EMAIL_TAKEN", "Email already registered"}
)
