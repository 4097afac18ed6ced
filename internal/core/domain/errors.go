package domain

import "errors"

// Sentinel errors returned by ledger operations. Callers match them with
// errors.Is; the HTTP layer maps them to status codes.
var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidOwner           = errors.New("invalid owner identity")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrPayoutNotFound         = errors.New("payout not found")
	ErrCampaignNotActive      = errors.New("campaign not active")
	ErrUnauthorized           = errors.New("caller not authorized")
	ErrInsufficientBudget     = errors.New("insufficient budget")
	ErrPayoutAlreadyCompleted = errors.New("payout already completed")
	ErrPayoutCancelled        = errors.New("payout cancelled")

	// ErrConcurrencyConflict signals a serialization failure in the store.
	// The escrow service retries these transparently a bounded number of
	// times before surfacing the error.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)
