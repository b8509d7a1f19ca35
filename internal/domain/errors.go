package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidUpgrade    = errors.New("license tier below current tier")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrReferralCycle     = errors.New("referrer would create a cycle")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidStatus     = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid input")
)
