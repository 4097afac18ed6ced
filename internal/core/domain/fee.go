package domain

// BpsDenominator is the number of basis points in 100%.
const BpsDenominator = 10000

// FeeConfig is the platform fee configuration. It is captured as a snapshot
// on each payout request at authorization time, so a later rate change never
// alters an already-authorized payout.
type FeeConfig struct {
	// RateBps is the fee rate in basis points, in [0, 10000].
	RateBps int
	// Collector is the identity credited with every fee amount.
	Collector string
}

// ComputeFee splits a gross amount into (net, fee) using integer basis-point
// arithmetic: fee = floor(amount * rateBps / 10000). The split is exact,
// net + fee == amount for every input. The quotient and remainder of the
// amount are scaled separately so the product never exceeds int64 range, even
// at the top of it.
func ComputeFee(amount int64, rateBps int) (net, fee int64) {
	rate := int64(rateBps)
	fee = amount/BpsDenominator*rate + amount%BpsDenominator*rate/BpsDenominator
	return amount - fee, fee
}
