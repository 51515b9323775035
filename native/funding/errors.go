package funding

import "errors"

var (
	ErrInvalidAmount      = errors.New("funding: invalid amount")
	ErrNotInitialized     = errors.New("funding: pool not initialized")
	ErrAlreadyInitialized = errors.New("funding: pool already initialized")
	ErrDeadlinePassed     = errors.New("funding: deadline passed")
	ErrNotReleasable      = errors.New("funding: not releasable")
	ErrAlreadyReleased    = errors.New("funding: already released")
	ErrNotRefundable      = errors.New("funding: not refundable")
	ErrAlreadyRefunded    = errors.New("funding: already refunded")
	ErrNoContribution     = errors.New("funding: no contribution")
	ErrNilLedger          = errors.New("funding: ledger not configured")
)
