package savings

import "errors"

var (
	ErrInvalidAmount      = errors.New("savings: invalid amount")
	ErrUnauthorized       = errors.New("savings: unauthorized")
	ErrInsufficientPoints = errors.New("savings: insufficient points")
	ErrPaused             = errors.New("savings: paused")
	ErrNilLedger          = errors.New("savings: ledger not configured")
	ErrNilTreasury        = errors.New("savings: treasury not configured")
)
