package configs

import (
	"fmt"

	"creator-ledger/internal/core/domain"
)

// Fee configures the platform fee. The rate applies to payouts authorized
// after startup; each payout freezes the rate it was authorized under, so
// redeploying with a different rate never alters already-authorized payouts.
type Fee struct {
	// RateBps is the platform fee in basis points. Defaults to 100 (1%).
	RateBps int `env:"RATE_BPS" envDefault:"100"`
	// Collector is the account credited with every fee amount.
	Collector string `env:"COLLECTOR" envDefault:"platform"`
}

// Validate checks the rate range and the collector identity.
func (c Fee) Validate() error {
	if c.RateBps < 0 || c.RateBps > domain.BpsDenominator {
		return fmt.Errorf("fee rate %d out of range [0, %d]", c.RateBps, domain.BpsDenominator)
	}
	if c.Collector == "" {
		return fmt.Errorf("fee collector must not be empty")
	}
	return nil
}

// Config returns the domain snapshot used by the escrow engine.
func (c Fee) Config() domain.FeeConfig {
	return domain.FeeConfig{RateBps: c.RateBps, Collector: c.Collector}
}
