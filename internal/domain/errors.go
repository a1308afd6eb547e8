package domain

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotPayable     = errors.New("order is not payable")
	ErrDuplicateEvent      = errors.New("transaction already applied")
	ErrStaleTransition     = errors.New("stale status transition")
	ErrTotalMismatch       = errors.New("client total does not match server total")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrProductUnavailable  = errors.New("product unavailable")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrSessionFailed       = errors.New("payment session failed")
	ErrBadSignature        = errors.New("webhook signature mismatch")
	ErrInvalidPayload      = errors.New("invalid webhook payload")
)
