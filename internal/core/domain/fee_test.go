package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestComputeFeeExact verifies the split never creates or destroys a unit,
// for a sweep of amounts and every region of the rate range.
func TestComputeFeeExact(t *testing.T) {
	amounts := []int64{1, 2, 3, 9, 10, 999, 1000, 9999, 10000, 12345, 1 << 30, 1 << 40}
	for rate := 0; rate <= 10000; rate += 37 {
		for _, amount := range amounts {
			net, fee := ComputeFee(amount, rate)
			require.Equal(t, amount, net+fee, "amount %d rate %d", amount, rate)
			require.GreaterOrEqual(t, fee, int64(0))
			require.GreaterOrEqual(t, net, int64(0))
			require.Equal(t, amount*int64(rate)/BpsDenominator, fee)
		}
	}
	// the boundary rates exactly
	net, fee := ComputeFee(12345, 0)
	require.Equal(t, int64(12345), net)
	require.Equal(t, int64(0), fee)
	net, fee = ComputeFee(12345, 10000)
	require.Equal(t, int64(0), net)
	require.Equal(t, int64(12345), fee)
}

// TestComputeFeeLargeAmounts pins the split for amounts far beyond the point
// where a naive amount*rate product would wrap int64. Expected values were
// computed with arbitrary-precision arithmetic.
func TestComputeFeeLargeAmounts(t *testing.T) {
	tests := []struct {
		amount  int64
		rateBps int
		net     int64
		fee     int64
	}{
		{1 << 60, 10000, 0, 1 << 60},
		{1 << 60, 100, 1141392289560778507, 11529215046068469},
		{1<<62 + 12345, 9999, 461168601842741, 4611224849825557508},
		{math.MaxInt64, 1, 9222449699651090330, 922337203685477},
		{math.MaxInt64, 9999, 922337203685478, 9222449699651090329},
		{math.MaxInt64, 10000, 0, math.MaxInt64},
		{923456789012345678, 250, 900370369287037037, 23086419725308641},
	}
	for _, tt := range tests {
		net, fee := ComputeFee(tt.amount, tt.rateBps)
		require.Equal(t, tt.net, net, "amount %d rate %d", tt.amount, tt.rateBps)
		require.Equal(t, tt.fee, fee, "amount %d rate %d", tt.amount, tt.rateBps)
		require.Equal(t, tt.amount, net+fee)
	}
}

func TestComputeFeeFloors(t *testing.T) {
	tests := []struct {
		amount  int64
		rateBps int
		net     int64
		fee     int64
	}{
		{1000, 100, 990, 10},
		{10, 100, 10, 0},  // fee rounds down to zero
		{999, 50, 995, 4}, // floor(999*50/10000) = 4
		{1, 9999, 1, 0},
		{30000, 100, 29700, 300},
	}
	for _, tt := range tests {
		net, fee := ComputeFee(tt.amount, tt.rateBps)
		require.Equal(t, tt.net, net, "amount %d rate %d", tt.amount, tt.rateBps)
		require.Equal(t, tt.fee, fee, "amount %d rate %d", tt.amount, tt.rateBps)
	}
}
