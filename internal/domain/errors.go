package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidAmount         = errors.New("amount must not be negative")
	ErrFutureDate            = errors.New("receipt date cannot be in the future")
	ErrDimensionKindMismatch = errors.New("dimension kind does not match entry kind")
	ErrInvalidDimensionRole  = errors.New("dimension role is invalid for this reference")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrSameAccount           = errors.New("source and destination accounts must differ")
	ErrSameBank              = errors.New("source and destination banks must differ")
	ErrInvalidAccountSide    = errors.New("account side must be balance or investment")
	ErrInvalidKind           = errors.New("entry kind must be income or expenses")
	ErrEmailTaken            = errors.New("email already registered")
)
