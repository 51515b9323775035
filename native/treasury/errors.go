package treasury

import "errors"

var (
	ErrInvalidAmount       = errors.New("treasury: amount must be positive")
	ErrUnauthorized        = errors.New("treasury: unauthorized")
	ErrBudgetExceeded      = errors.New("treasury: global cap exceeded")
	ErrInsufficientReserve = errors.New("treasury: insufficient reserve")
	ErrNilLedger           = errors.New("treasury: ledger not configured")
)
